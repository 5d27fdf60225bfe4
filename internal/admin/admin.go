// Package admin implements the loyalty and promo command languages used in
// the corresponding bot dialogs. Commands parse into typed results so the
// rule set is testable without any transport.
package admin

// Kind classifies the outcome of one admin command.
type Kind int

const (
	// Applied means the site config changed and must be persisted.
	Applied Kind = iota
	// Answer means a query was served; nothing changed.
	Answer
	// Invalid means the input failed validation; nothing changed.
	Invalid
)

// Result is the outcome of one admin command.
type Result struct {
	Kind  Kind
	Reply string
}

func applied(reply string) Result { return Result{Kind: Applied, Reply: reply} }
func answer(reply string) Result  { return Result{Kind: Answer, Reply: reply} }
func invalid(reply string) Result { return Result{Kind: Invalid, Reply: reply} }
