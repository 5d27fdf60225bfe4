package engine

import (
	"fmt"

	"menubot/internal/domain"
	"menubot/internal/wizard"
)

// StartCreate begins the product creation dialog.
func (e *Engine) StartCreate() Effects {
	var fx Effects
	st := domain.DialogState{
		Mode:    domain.ModeProduct,
		Submode: domain.SubmodeCreate,
	}
	fx.setState(st)
	fx.reply("Adding a new product.\n" + wizard.Prompt(0, &st.Draft))
	return fx
}

// ListEdit emits one message per product with an inline edit button.
func (e *Engine) ListEdit(catalog []domain.Product) Effects {
	return listWithButton(catalog, "Edit", CbEdit)
}

// ListDelete emits one message per product with an inline delete button.
func (e *Engine) ListDelete(catalog []domain.Product) Effects {
	return listWithButton(catalog, "Delete", CbDelete)
}

func listWithButton(catalog []domain.Product, label, key string) Effects {
	var fx Effects
	if len(catalog) == 0 {
		fx.reply(textEmptyMenu)
		return fx
	}
	for i, p := range catalog {
		fx.Replies = append(fx.Replies, Reply{
			Text:    productLine(i, p),
			Buttons: []Button{{Text: label, Key: key, Payload: p.ID}},
		})
	}
	return fx
}

// StartConfigSet begins a config-field dialog for one of the text keys.
func (e *Engine) StartConfigSet(key string, cfg domain.SiteConfig) Effects {
	var fx Effects

	var current string
	switch key {
	case domain.ConfigKeyAccessCode:
		current = cfg.AccessCode
	case domain.ConfigKeyWelcome:
		current = cfg.Welcome
	case domain.ConfigKeyInfo:
		current = cfg.Info
	default:
		fx.reply("Unknown setting.")
		return fx
	}

	fx.setState(domain.DialogState{Mode: domain.ModeConfig, ConfigKey: key})

	msg := fmt.Sprintf("Send the new value for %s.", key)
	if current != "" {
		msg = fmt.Sprintf("Current %s: %s\nSend the new value, or /cancel.", key, current)
	}
	fx.reply(msg)
	return fx
}

// StartLoyalty enters the loyalty admin dialog.
func (e *Engine) StartLoyalty(cfg domain.SiteConfig) Effects {
	var fx Effects
	fx.setState(domain.DialogState{Mode: domain.ModeLoyalty})

	status := "off"
	if cfg.Loyalty.Enabled {
		status = "on"
	}
	fx.reply(fmt.Sprintf(
		"Loyalty admin. Program is %s, threshold %d.\n"+
			"Commands: on, off, threshold N, @user +N|-N|=N|N|?\n"+
			"/cancel leaves this dialog.",
		status, cfg.Loyalty.RequiredOrders))
	return fx
}

// StartPromo enters the promo admin dialog.
func (e *Engine) StartPromo(cfg domain.SiteConfig) Effects {
	var fx Effects
	fx.setState(domain.DialogState{Mode: domain.ModePromo})

	status := "off"
	if cfg.Promo.Enabled {
		status = "on"
	}
	fx.reply(fmt.Sprintf(
		"Promo admin. Banner is %s.\n"+
			"Commands: on, off, text <value>, speed N (%d-%d)\n"+
			"/cancel leaves this dialog.",
		status, domain.PromoSpeedMin, domain.PromoSpeedMax))
	return fx
}

// Cancel aborts any dialog and returns to idle.
func (e *Engine) Cancel() Effects {
	var fx Effects
	fx.setState(domain.DialogState{})
	fx.Replies = append(fx.Replies, Reply{Text: textCancelled, MainMenu: true})
	return fx
}
