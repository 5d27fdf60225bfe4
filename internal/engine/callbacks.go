package engine

import (
	"menubot/internal/domain"
	"menubot/internal/store"
	"menubot/internal/wizard"
)

// Callback processes an inline button press. The payload carries the target
// product's identifier; the catalog passed in must be freshly loaded so the
// target is re-validated at press time.
func (e *Engine) Callback(key, payload string, catalog []domain.Product) Effects {
	switch key {
	case CbEdit:
		return e.startEdit(payload, catalog)
	case CbDelete:
		return e.askDelete(payload, catalog)
	case CbConfirmDelete:
		return e.confirmDelete(payload, catalog)
	case CbCancelDelete:
		var fx Effects
		fx.reply("Deletion cancelled.")
		return fx
	}

	var fx Effects
	fx.reply("Unsupported action.")
	return fx
}

func (e *Engine) startEdit(id string, catalog []domain.Product) Effects {
	var fx Effects

	i, ok := store.FindByID(catalog, id)
	if !ok {
		fx.reply(textNotFound)
		return fx
	}

	st := domain.DialogState{
		Mode:    domain.ModeProduct,
		Submode: domain.SubmodeEdit,
		EditID:  id,
		Draft:   catalog[i],
	}
	fx.setState(st)
	fx.reply("Editing " + catalog[i].Name + ".\n" + wizard.Prompt(0, &st.Draft))
	return fx
}

func (e *Engine) askDelete(id string, catalog []domain.Product) Effects {
	var fx Effects

	i, ok := store.FindByID(catalog, id)
	if !ok {
		fx.reply(textNotFound)
		return fx
	}

	fx.Replies = append(fx.Replies, Reply{
		Text: "Delete " + catalog[i].Name + "?",
		Buttons: []Button{
			{Text: "Yes, delete", Key: CbConfirmDelete, Payload: id},
			{Text: "Keep it", Key: CbCancelDelete, Payload: id},
		},
	})
	return fx
}

func (e *Engine) confirmDelete(id string, catalog []domain.Product) Effects {
	var fx Effects

	i, ok := store.FindByID(catalog, id)
	if !ok {
		fx.reply(textNotFound)
		return fx
	}

	name := catalog[i].Name
	fx.Catalog = append(catalog[:i], catalog[i+1:]...)
	fx.SaveCatalog = true
	fx.reply("Deleted " + name + ".")
	return fx
}
