package engine

import (
	"context"
	"strings"

	"menubot/internal/admin"
	"menubot/internal/domain"
	"menubot/internal/store"
	"menubot/internal/wizard"
)

// Text processes a text message for a chat with an active dialog.
func (e *Engine) Text(ctx context.Context, in Turn, st domain.DialogState, catalog []domain.Product, cfg domain.SiteConfig) Effects {
	txt := strings.TrimSpace(in.Text)

	if strings.EqualFold(txt, "/cancel") {
		return e.Cancel()
	}

	switch st.Mode {
	case domain.ModeConfig:
		return e.configSet(txt, st, cfg)
	case domain.ModeLoyalty:
		return e.adminCommand(txt, cfg, admin.Loyalty)
	case domain.ModePromo:
		return e.adminCommand(txt, cfg, admin.Promo)
	case domain.ModeProduct:
		return e.wizardText(ctx, txt, st, catalog)
	}

	var fx Effects
	fx.reply(textNoDialog)
	return fx
}

func (e *Engine) configSet(txt string, st domain.DialogState, cfg domain.SiteConfig) Effects {
	var fx Effects

	if st.ConfigKey == domain.ConfigKeyAccessCode && !domain.ValidAccessCode(txt) {
		fx.reply(textBadAccess)
		return fx
	}

	switch st.ConfigKey {
	case domain.ConfigKeyAccessCode:
		cfg.AccessCode = txt
	case domain.ConfigKeyWelcome:
		cfg.Welcome = txt
	case domain.ConfigKeyInfo:
		cfg.Info = txt
	default:
		fx.setState(domain.DialogState{})
		fx.reply("Unknown setting.")
		return fx
	}

	fx.Config = &cfg
	fx.setState(domain.DialogState{})
	fx.Replies = append(fx.Replies, Reply{Text: textConfigSet, MainMenu: true})
	return fx
}

func (e *Engine) adminCommand(txt string, cfg domain.SiteConfig, run func(*domain.SiteConfig, string) admin.Result) Effects {
	var fx Effects
	res := run(&cfg, txt)
	if res.Kind == admin.Applied {
		fx.Config = &cfg
	}
	fx.reply(res.Reply)
	return fx
}

func (e *Engine) wizardText(ctx context.Context, txt string, st domain.DialogState, catalog []domain.Product) Effects {
	switch {
	case strings.EqualFold(txt, "/skip"):
		return e.advance(st, catalog)
	case strings.EqualFold(txt, "/done"):
		if st.Draft.Name == "" {
			return e.refuseNameless(st)
		}
		return e.commit(st, catalog)
	}

	if wizard.IsMedia(st.Step) {
		if !urlShaped(txt) {
			var fx Effects
			fx.reply("Send the file, a direct URL, or /skip.\n" + wizard.Prompt(st.Step, &st.Draft))
			return fx
		}
		link, err := e.rehost.RehostURL(ctx, txt)
		if err != nil {
			var fx Effects
			fx.reply("Upload failed: " + err.Error() + "\nTry again, or /skip.")
			return fx
		}
		wizard.ApplyURL(st.Step, &st.Draft, link)
		return e.advance(st, catalog)
	}

	wizard.ApplyText(st.Step, &st.Draft, txt)
	return e.advance(st, catalog)
}

// Media processes a message carrying an attachment.
func (e *Engine) Media(ctx context.Context, in Turn, st domain.DialogState, catalog []domain.Product) Effects {
	var fx Effects

	if st.Mode != domain.ModeProduct || !wizard.IsMedia(st.Step) {
		fx.reply(textUnexpected)
		return fx
	}

	fileID, filename := pickAttachment(in, st.Step)
	if fileID == "" {
		fx.reply("That attachment does not fit this step.\n" + wizard.Prompt(st.Step, &st.Draft))
		return fx
	}

	name, data, err := e.files.Download(ctx, fileID)
	if err != nil {
		fx.reply("Couldn't fetch the file: " + err.Error() + "\nTry again, or /skip.")
		return fx
	}
	if name != "" {
		filename = name
	}

	link, err := e.rehost.RehostBlob(ctx, filename, data)
	if err != nil {
		fx.reply("Upload failed: " + err.Error() + "\nTry again, or /skip.")
		return fx
	}

	wizard.ApplyURL(st.Step, &st.Draft, link)
	return e.advance(st, catalog)
}

func pickAttachment(in Turn, step int) (fileID, filename string) {
	f, ok := wizard.At(step)
	if !ok {
		return "", ""
	}
	switch f.Kind {
	case wizard.Image:
		if in.PhotoID != "" {
			return in.PhotoID, "photo.jpg"
		}
		if in.DocID != "" && strings.HasPrefix(in.DocMime, "image/") {
			return in.DocID, docName(in, "image.jpg")
		}
	case wizard.Video:
		if in.VideoID != "" {
			return in.VideoID, "video.mp4"
		}
		if in.DocID != "" && strings.HasPrefix(in.DocMime, "video/") {
			return in.DocID, docName(in, "video.mp4")
		}
	}
	return "", ""
}

func docName(in Turn, fallback string) string {
	if in.DocName != "" {
		return in.DocName
	}
	return fallback
}

func (e *Engine) advance(st domain.DialogState, catalog []domain.Product) Effects {
	st.Step++
	if st.Step >= wizard.Count() {
		if st.Draft.Name == "" {
			return e.refuseNameless(st)
		}
		return e.commit(st, catalog)
	}

	var fx Effects
	fx.setState(st)
	fx.reply(wizard.Prompt(st.Step, &st.Draft))
	return fx
}

// refuseNameless sends the dialog back to the name step instead of
// committing a nameless product.
func (e *Engine) refuseNameless(st domain.DialogState) Effects {
	var fx Effects
	st.Step = 0
	fx.setState(st)
	fx.reply(textNeedName)
	return fx
}

func (e *Engine) commit(st domain.DialogState, catalog []domain.Product) Effects {
	var fx Effects

	switch st.Submode {
	case domain.SubmodeEdit:
		i, ok := store.FindByID(catalog, st.EditID)
		if !ok {
			fx.setState(domain.DialogState{})
			fx.Replies = append(fx.Replies, Reply{Text: textNotFound, MainMenu: true})
			return fx
		}
		st.Draft.ID = st.EditID
		catalog[i] = st.Draft
		fx.Catalog = catalog
		fx.SaveCatalog = true
		fx.setState(domain.DialogState{})
		fx.Replies = append(fx.Replies, Reply{Text: "Product updated.", MainMenu: true})
		return fx

	default:
		st.Draft.EnsureID()
		fx.Catalog = append(catalog, st.Draft)
		fx.SaveCatalog = true
		fx.setState(domain.DialogState{})
		fx.Replies = append(fx.Replies, Reply{Text: "Product saved.", MainMenu: true})
		return fx
	}
}

func urlShaped(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
