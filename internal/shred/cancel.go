package shred

import (
	"sync/atomic"
)

// CancellationToken - кооперативный сигнал отмены, разделяемый вызывающим
// кодом и рабочим потоком. Проверяется в начале каждого прохода и минимум
// раз на чанк, так что задержка реакции ограничена одной записью чанка.
type CancellationToken struct {
	flag atomic.Bool
}

// NewCancellationToken создаёт новый токен
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel устанавливает сигнал отмены. Безопасен из любого потока.
func (t *CancellationToken) Cancel() {
	t.flag.Store(true)
}

// Cancelled сообщает, запрошена ли отмена
func (t *CancellationToken) Cancelled() bool {
	return t.flag.Load()
}
