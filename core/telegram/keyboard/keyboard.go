package keyboard

import tele "gopkg.in/telebot.v4"

// ReplyButtons builds a persistent reply keyboard from rows of button labels.
func ReplyButtons(rows [][]string) *tele.ReplyMarkup {
	rm := &tele.ReplyMarkup{ResizeKeyboard: true}
	out := make([]tele.Row, 0, len(rows))
	for _, labels := range rows {
		row := make(tele.Row, 0, len(labels))
		for _, label := range labels {
			row = append(row, rm.Text(label))
		}
		out = append(out, row)
	}
	rm.Reply(out...)
	return rm
}

// InlineBtn is a single inline button definition: visible text plus callback data.
type InlineBtn struct {
	Text string
	Data string
}

// InlineRows builds an inline keyboard from rows of buttons.
func InlineRows(rows [][]InlineBtn) *tele.ReplyMarkup {
	rm := &tele.ReplyMarkup{}
	out := make([]tele.Row, 0, len(rows))
	for _, btns := range rows {
		row := make(tele.Row, 0, len(btns))
		for _, b := range btns {
			// Unique stays empty so Data reaches the wire unmodified.
			row = append(row, tele.Btn{Text: b.Text, Data: b.Data})
		}
		out = append(out, row)
	}
	rm.Inline(out...)
	return rm
}

// RemoveKeyboard returns markup that removes any reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}
