package engine

import (
	"context"
	"errors"
	"testing"

	"menubot/internal/domain"
	"menubot/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRehoster struct {
	fail bool
	urls []string
}

func (f *fakeRehoster) RehostBlob(_ context.Context, filename string, _ []byte) (string, error) {
	if f.fail {
		return "", errors.New("host unreachable")
	}
	link := "https://files.example.com/" + filename
	f.urls = append(f.urls, link)
	return link, nil
}

func (f *fakeRehoster) RehostURL(_ context.Context, remote string) (string, error) {
	if f.fail {
		return "", errors.New("host unreachable")
	}
	link := "https://files.example.com/mirror"
	f.urls = append(f.urls, link)
	return link, nil
}

type fakeFiles struct {
	fail bool
}

func (f *fakeFiles) Download(_ context.Context, fileID string) (string, []byte, error) {
	if f.fail {
		return "", nil, errors.New("file gone")
	}
	return fileID + ".bin", []byte("data"), nil
}

func newTestEngine() (*Engine, *fakeRehoster) {
	rh := &fakeRehoster{}
	return New(rh, &fakeFiles{}), rh
}

func textTurn(text string) Turn {
	return Turn{ChatID: 1, Text: text}
}

// run feeds a sequence of text messages, carrying state between turns, and
// returns the last effects plus the final state.
func run(t *testing.T, e *Engine, st domain.DialogState, catalog []domain.Product, cfg domain.SiteConfig, inputs ...string) (Effects, domain.DialogState) {
	t.Helper()
	var fx Effects
	for _, in := range inputs {
		fx = e.Text(context.Background(), textTurn(in), st, catalog, cfg)
		if fx.State != nil {
			st = *fx.State
		}
		if fx.SaveCatalog {
			catalog = fx.Catalog
		}
	}
	return fx, st
}

func TestCreateFlowCommits(t *testing.T) {
	e, _ := newTestEngine()

	fx := e.StartCreate()
	require.NotNil(t, fx.State)
	st := *fx.State
	assert.Equal(t, domain.ModeProduct, st.Mode)
	assert.Equal(t, domain.SubmodeCreate, st.Submode)
	assert.Equal(t, 0, st.Step)

	inputs := []string{
		"OG Kush",          // name
		"indica",           // category
		"Classic strain.",  // description
		"/skip",            // effect
		"/skip",            // aroma
		"22",               // thclvl
		"3.5g:25, 7g:45",   // prices
		"/skip",            // image
		"/skip",            // video -> past last field, commit
	}
	last, st := run(t, e, st, nil, domain.SiteConfig{}, inputs...)

	require.True(t, last.SaveCatalog)
	require.Len(t, last.Catalog, 1)
	p := last.Catalog[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "OG Kush", p.Name)
	assert.Equal(t, "indica", p.Cat)
	require.NotNil(t, p.THC)
	assert.Equal(t, 22.0, *p.THC)
	require.Len(t, p.Prices, 2)
	assert.False(t, st.Active())
}

func TestSkipAllRefusesNamelessCommit(t *testing.T) {
	e, _ := newTestEngine()
	st := *e.StartCreate().State

	inputs := make([]string, wizard.Count())
	for i := range inputs {
		inputs[i] = "/skip"
	}
	last, st := run(t, e, st, nil, domain.SiteConfig{}, inputs...)

	assert.False(t, last.SaveCatalog)
	require.Len(t, last.Replies, 1)
	assert.Contains(t, last.Replies[0].Text, "name")

	// The dialog returns to the name step instead of aborting.
	assert.True(t, st.Active())
	assert.Equal(t, 0, st.Step)
}

func TestDoneCommitsEarly(t *testing.T) {
	e, _ := newTestEngine()
	st := *e.StartCreate().State

	last, st := run(t, e, st, nil, domain.SiteConfig{}, "Sour Diesel", "/done")

	require.True(t, last.SaveCatalog)
	require.Len(t, last.Catalog, 1)
	assert.Equal(t, "Sour Diesel", last.Catalog[0].Name)
	assert.False(t, st.Active())
}

func TestDoneWithoutNameRefused(t *testing.T) {
	e, _ := newTestEngine()
	st := *e.StartCreate().State

	last, st := run(t, e, st, nil, domain.SiteConfig{}, "/done")
	assert.False(t, last.SaveCatalog)
	assert.True(t, st.Active())
}

func TestCancelDiscardsDraft(t *testing.T) {
	e, _ := newTestEngine()
	st := *e.StartCreate().State

	last, st := run(t, e, st, nil, domain.SiteConfig{}, "OG Kush", "/cancel")
	assert.False(t, last.SaveCatalog)
	assert.Nil(t, last.Config)
	assert.False(t, st.Active())
}

func TestTHCParseFailureKeepsValueAndAdvances(t *testing.T) {
	e, _ := newTestEngine()
	st := *e.StartCreate().State

	_, st = run(t, e, st, nil, domain.SiteConfig{}, "OG Kush", "/skip", "/skip", "/skip", "/skip", "very strong")
	assert.Nil(t, st.Draft.THC)
	assert.Equal(t, 6, st.Step) // advanced to prices despite the bad number
}

func TestEditFlowReplacesOnlyTarget(t *testing.T) {
	e, _ := newTestEngine()
	catalog := []domain.Product{
		{ID: "a", Name: "One", Cat: "indica"},
		{ID: "b", Name: "Two", Cat: "sativa"},
		{ID: "c", Name: "Three", Cat: "hybrid"},
	}

	fx := e.Callback(CbEdit, "b", catalog)
	require.NotNil(t, fx.State)
	st := *fx.State
	assert.Equal(t, domain.SubmodeEdit, st.Submode)
	assert.Equal(t, "Two", st.Draft.Name)

	last, st := run(t, e, st, catalog, domain.SiteConfig{}, "Two Renamed", "/done")

	require.True(t, last.SaveCatalog)
	require.Len(t, last.Catalog, 3)
	assert.Equal(t, "One", last.Catalog[0].Name)
	assert.Equal(t, "Two Renamed", last.Catalog[1].Name)
	assert.Equal(t, "b", last.Catalog[1].ID)
	assert.Equal(t, "Three", last.Catalog[2].Name)
	assert.False(t, st.Active())
}

func TestEditCommitWithVanishedTarget(t *testing.T) {
	e, _ := newTestEngine()
	st := domain.DialogState{
		Mode:    domain.ModeProduct,
		Submode: domain.SubmodeEdit,
		EditID:  "gone",
		Draft:   domain.Product{Name: "Ghost"},
	}

	fx := e.Text(context.Background(), textTurn("/done"), st, []domain.Product{{ID: "other"}}, domain.SiteConfig{})
	assert.False(t, fx.SaveCatalog)
	require.NotNil(t, fx.State)
	assert.False(t, fx.State.Active())
	assert.Contains(t, fx.Replies[0].Text, "no longer exists")
}

func TestDeleteFlow(t *testing.T) {
	e, _ := newTestEngine()
	catalog := []domain.Product{{ID: "a", Name: "One"}, {ID: "b", Name: "Two"}}

	fx := e.Callback(CbDelete, "a", catalog)
	require.Len(t, fx.Replies, 1)
	require.Len(t, fx.Replies[0].Buttons, 2)
	assert.Equal(t, CbConfirmDelete, fx.Replies[0].Buttons[0].Key)
	assert.False(t, fx.SaveCatalog)

	fx = e.Callback(CbConfirmDelete, "a", catalog)
	require.True(t, fx.SaveCatalog)
	require.Len(t, fx.Catalog, 1)
	assert.Equal(t, "b", fx.Catalog[0].ID)
}

func TestStaleDeleteDoesNotRemoveWrongItem(t *testing.T) {
	e, _ := newTestEngine()

	// The target vanished between listing and confirmation.
	current := []domain.Product{{ID: "b", Name: "Two"}}
	fx := e.Callback(CbConfirmDelete, "a", current)

	assert.False(t, fx.SaveCatalog)
	assert.Contains(t, fx.Replies[0].Text, "no longer exists")
}

func TestDeleteCancel(t *testing.T) {
	e, _ := newTestEngine()
	fx := e.Callback(CbCancelDelete, "a", []domain.Product{{ID: "a"}})
	assert.False(t, fx.SaveCatalog)
	assert.Nil(t, fx.State)
}

func TestConfigSetAccessCodeValidation(t *testing.T) {
	e, _ := newTestEngine()
	cfg := domain.DefaultSiteConfig()
	st := *e.StartConfigSet(domain.ConfigKeyAccessCode, cfg).State

	// Too long and spaced values are rejected; the dialog stays put.
	for _, bad := range []string{"seventeen_chars_x", "with space", "a"} {
		fx := e.Text(context.Background(), textTurn(bad), st, nil, cfg)
		assert.Nil(t, fx.Config, bad)
		assert.Nil(t, fx.State, bad)
	}

	fx := e.Text(context.Background(), textTurn("A1b2C3d4E5f6G7h8"), st, nil, cfg)
	require.NotNil(t, fx.Config)
	assert.Equal(t, "A1b2C3d4E5f6G7h8", fx.Config.AccessCode)
	require.NotNil(t, fx.State)
	assert.False(t, fx.State.Active())
}

func TestConfigSetWelcome(t *testing.T) {
	e, _ := newTestEngine()
	cfg := domain.DefaultSiteConfig()
	st := *e.StartConfigSet(domain.ConfigKeyWelcome, cfg).State

	fx := e.Text(context.Background(), textTurn("Welcome to the shop"), st, nil, cfg)
	require.NotNil(t, fx.Config)
	assert.Equal(t, "Welcome to the shop", fx.Config.Welcome)
}

func TestLoyaltyDialog(t *testing.T) {
	e, _ := newTestEngine()
	cfg := domain.DefaultSiteConfig()
	st := *e.StartLoyalty(cfg).State

	fx := e.Text(context.Background(), textTurn("@alice +1"), st, nil, cfg)
	require.NotNil(t, fx.Config)
	assert.Equal(t, 1, fx.Config.Loyalty.Counter("alice"))
	// The dialog stays active for more commands.
	assert.Nil(t, fx.State)

	fx = e.Text(context.Background(), textTurn("gibberish"), st, nil, cfg)
	assert.Nil(t, fx.Config)
	assert.NotEmpty(t, fx.Replies)
}

func TestPromoDialog(t *testing.T) {
	e, _ := newTestEngine()
	cfg := domain.DefaultSiteConfig()
	st := *e.StartPromo(cfg).State

	fx := e.Text(context.Background(), textTurn("speed 40"), st, nil, cfg)
	require.NotNil(t, fx.Config)
	assert.Equal(t, 40, fx.Config.Promo.ScrollSpeed)

	fx = e.Text(context.Background(), textTurn("speed 999"), st, nil, cfg)
	assert.Nil(t, fx.Config)
}

func TestMediaURLUploadOnImageStep(t *testing.T) {
	e, rh := newTestEngine()
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 7}
	st.Draft.Name = "OG Kush"

	fx := e.Text(context.Background(), textTurn("https://origin.example.com/p.jpg"), st, nil, domain.SiteConfig{})
	require.NotNil(t, fx.State)
	assert.Equal(t, 8, fx.State.Step)
	assert.Equal(t, "https://files.example.com/mirror", fx.State.Draft.Img)
	assert.Len(t, rh.urls, 1)
}

func TestMediaNonURLTextRepromptsWithoutAdvancing(t *testing.T) {
	e, _ := newTestEngine()
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 7}

	fx := e.Text(context.Background(), textTurn("just words"), st, nil, domain.SiteConfig{})
	assert.Nil(t, fx.State)
	assert.NotEmpty(t, fx.Replies)
}

func TestMediaAttachmentFlow(t *testing.T) {
	e, _ := newTestEngine()
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 7}
	st.Draft.Name = "OG Kush"

	in := Turn{ChatID: 1, PhotoID: "file123"}
	fx := e.Media(context.Background(), in, st, nil)
	require.NotNil(t, fx.State)
	assert.Equal(t, 8, fx.State.Step)
	assert.Equal(t, "https://files.example.com/file123.bin", fx.State.Draft.Img)
}

func TestMediaRehostFailureStaysOnStep(t *testing.T) {
	rh := &fakeRehoster{fail: true}
	e := New(rh, &fakeFiles{})
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 7}

	fx := e.Media(context.Background(), Turn{ChatID: 1, PhotoID: "file123"}, st, nil)
	assert.Nil(t, fx.State)
	require.NotEmpty(t, fx.Replies)
	assert.Contains(t, fx.Replies[0].Text, "Upload failed")
	assert.Empty(t, st.Draft.Img)
}

func TestMediaDownloadFailureStaysOnStep(t *testing.T) {
	e := New(&fakeRehoster{}, &fakeFiles{fail: true})
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 7}

	fx := e.Media(context.Background(), Turn{ChatID: 1, PhotoID: "file123"}, st, nil)
	assert.Nil(t, fx.State)
	assert.Contains(t, fx.Replies[0].Text, "Couldn't fetch")
}

func TestMediaOnTextStepRejected(t *testing.T) {
	e, _ := newTestEngine()
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 0}

	fx := e.Media(context.Background(), Turn{ChatID: 1, PhotoID: "file123"}, st, nil)
	assert.Nil(t, fx.State)
	assert.NotEmpty(t, fx.Replies)
}

func TestVideoStepRejectsImageDocument(t *testing.T) {
	e, _ := newTestEngine()
	st := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 8}

	fx := e.Media(context.Background(), Turn{ChatID: 1, DocID: "doc1", DocMime: "image/png"}, st, nil)
	assert.Nil(t, fx.State)
	assert.Contains(t, fx.Replies[0].Text, "does not fit")
}

func TestListEditEmitsButtonPerProduct(t *testing.T) {
	e, _ := newTestEngine()
	catalog := []domain.Product{{ID: "a", Name: "One", Cat: "indica"}, {ID: "b", Name: "Two"}}

	fx := e.ListEdit(catalog)
	require.Len(t, fx.Replies, 2)
	assert.Equal(t, "#1 — One (indica)", fx.Replies[0].Text)
	require.Len(t, fx.Replies[0].Buttons, 1)
	assert.Equal(t, CbEdit, fx.Replies[0].Buttons[0].Key)
	assert.Equal(t, "a", fx.Replies[0].Buttons[0].Payload)

	assert.Equal(t, "#2 — Two", fx.Replies[1].Text)
}

func TestListDeleteEmpty(t *testing.T) {
	e, _ := newTestEngine()
	fx := e.ListDelete(nil)
	require.Len(t, fx.Replies, 1)
	assert.Equal(t, textEmptyMenu, fx.Replies[0].Text)
}
