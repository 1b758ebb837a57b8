package shred

import (
	"crypto/rand"
	"fmt"
)

// PatternKind определяет тип генератора паттерна
type PatternKind int

const (
	// PatternRandom - криптографически случайные байты, новые при каждом вызове
	PatternRandom PatternKind = iota
	// PatternConstant - все байты равны фиксированному значению
	PatternConstant
	// PatternMotif - повторяющийся 3-байтовый мотив, обрезанный до нужной длины
	PatternMotif
)

// Pattern описывает один проход затирания. Варианты без замыканий и без
// изменяемого состояния: паттерн разворачивается в байты только по запросу.
type Pattern struct {
	Kind  PatternKind
	Value byte
	Motif [3]byte
}

// Fill заполняет буфер данными паттерна. Длина результата всегда равна len(buf).
func (p Pattern) Fill(buf []byte) error {
	switch p.Kind {
	case PatternRandom:
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("ошибка генерации случайных данных: %w", err)
		}
	case PatternConstant:
		for i := range buf {
			buf[i] = p.Value
		}
	case PatternMotif:
		for i := range buf {
			buf[i] = p.Motif[i%3]
		}
	default:
		return fmt.Errorf("неизвестный тип паттерна: %d", p.Kind)
	}
	return nil
}

// Generate возвращает ровно n байт данных паттерна
func (p Pattern) Generate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("некорректная длина паттерна: %d", n)
	}
	buf := make([]byte, n)
	if err := p.Fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Schedule - упорядоченный список генераторов, применяемый к файлу целиком
type Schedule []Pattern

// TotalPasses - число проходов максимального метода
const TotalPasses = 35

func random() Pattern         { return Pattern{Kind: PatternRandom} }
func constant(b byte) Pattern { return Pattern{Kind: PatternConstant, Value: b} }

func motif(a, b, c byte) Pattern {
	return Pattern{Kind: PatternMotif, Motif: [3]byte{a, b, c}}
}

// GutmannSchedule возвращает фиксированное 35-проходное расписание.
// Порядок и состав зафиксированы контрактом и не зависят от размера
// или типа файла.
func GutmannSchedule() Schedule {
	s := Schedule{
		random(), random(), random(), random(), // проходы 1-4
		constant(0x55),                         // проход 5
		constant(0xAA),                         // проход 6
		motif(0x92, 0x49, 0x24),                // проход 7
		motif(0x49, 0x24, 0x92),                // проход 8
		motif(0x24, 0x92, 0x49),                // проход 9
	}
	// Проходы 10-25: константы 0x00..0xFF с шагом 0x11
	for v := 0; v <= 0xFF; v += 0x11 {
		s = append(s, constant(byte(v)))
	}
	s = append(s,
		motif(0x92, 0x49, 0x24), // проход 26
		motif(0x49, 0x24, 0x92), // проход 27
		motif(0x24, 0x92, 0x49), // проход 28
		motif(0x6D, 0xB6, 0xDB), // проход 29
		motif(0xB6, 0xDB, 0x6D), // проход 30
		motif(0xDB, 0x6D, 0xB6), // проход 31
		random(), random(), random(), random(), // проходы 32-35
	)
	return s
}
