package weekimage

import (
	"time"

	"github.com/tanqtrail-arch/Absence/internal/model"
)

// EventBlocks блоки календаря занятий, время переводится в loc
func EventBlocks(events []*model.CalendarEvent, loc *time.Location) []Block {
	blocks := make([]Block, 0, len(events))
	for _, e := range events {
		blocks = append(blocks, Block{
			Start: e.StartAt.In(loc),
			End:   e.EndAt.In(loc),
			Label: e.Title,
			Kind:  eventKind(e),
		})
	}
	return blocks
}

func eventKind(e *model.CalendarEvent) Kind {
	if e.IsCancelled {
		return KindCancelled
	}

	switch e.EventType {
	case model.EventTypeClass:
		return KindClass
	case model.EventTypeExam:
		return KindExam
	case model.EventTypeInterview:
		return KindInterview
	default:
		return KindEvent
	}
}

// SlotBlocks блоки слотов собеседований, каждый длиной в шаг сетки.
// names подписывает занятые слоты (ID бронирования -> имя), может быть nil.
func SlotBlocks(slots []*model.InterviewSlot, names map[string]string, loc *time.Location) []Block {
	blocks := make([]Block, 0, len(slots))
	for _, slot := range slots {
		start, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, slot.Date+" "+slot.Time, loc)
		if err != nil {
			continue
		}

		b := Block{Start: start, End: start.Add(model.SlotGridStep), Kind: KindSlotOpen}
		if slot.IsBooked {
			b.Kind = KindSlotBooked
			b.Label = names[slot.BookingID]
		}
		blocks = append(blocks, b)
	}
	return blocks
}
