package shred

import (
	"sync"
)

// Пул буферов для цикла перезаписи. Буферы возвращаются обнулёнными:
// они могли содержать последний паттерн чувствительного файла.
type bufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalBufferPool = &bufferPool{
	pools: make(map[int]*sync.Pool),
}

// Стандартные размеры пулов
var poolSizes = []int{128 * 1024, 1024 * 1024, 4 * 1024 * 1024, 16 * 1024 * 1024, 64 * 1024 * 1024}

// getBuffer получает буфер из пула или создаёт новый
func getBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}
	return globalBufferPool.get(size)
}

// putBuffer обнуляет буфер и возвращает его в пул
func putBuffer(buf []byte) {
	if len(buf) == 0 {
		return
	}
	globalBufferPool.put(buf)
}

func (bp *bufferPool) get(size int) []byte {
	poolSize := poolClass(size)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if !exists {
		bp.mu.Lock()
		pool, exists = bp.pools[poolSize]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return make([]byte, poolSize)
				},
			}
			bp.pools[poolSize] = pool
		}
		bp.mu.Unlock()
	}

	buf := pool.Get().([]byte)
	return buf[:size]
}

func (bp *bufferPool) put(buf []byte) {
	capacity := cap(buf)
	poolSize := poolClass(capacity)

	bp.mu.RLock()
	pool, exists := bp.pools[poolSize]
	bp.mu.RUnlock()

	if exists {
		full := buf[:capacity]
		for i := range full {
			full[i] = 0
		}
		pool.Put(full)
	}
}

// poolClass подбирает ближайший стандартный размер пула
func poolClass(size int) int {
	for _, poolSize := range poolSizes {
		if size <= poolSize {
			return poolSize
		}
	}
	// Больше максимального - округляем вверх до 4KB
	return ((size + 4095) / 4096) * 4096
}
