package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/test"
)

const offerResponse = `{
	"vendor_name": " Office Supplies GmbH ",
	"vendor_vat_id": "DE123456789",
	"department": null,
	"order_lines": [
		{"description": "Chair", "unit_price": "199,90", "quantity": 2, "unit": null},
		{"description": "Desk", "unit_price": 450, "quantity": "1,5", "unit": "pcs"},
		{"description": "Broken", "unit_price": "n/a", "quantity": null, "unit": "h"}
	],
	"positions_net": "1.074,80",
	"shipping_net": 19.9,
	"tax_amount": null,
	"total_gross": "1.302,69 €",
	"currency": "eur"
}`

func newIntake(oracle *test.OracleStub, redactor test.RedactorStub, docs test.DocumentExtractorStub) *IntakeUseCase {
	cfg := testConfig()
	return NewIntakeUseCase(IntakeParams{
		Oracle:    oracle,
		Redactor:  redactor,
		Documents: docs,
		Titles:    NewTitleSuggester(oracle, cfg, zap.NewNop()),
		Config:    cfg,
		Logger:    zap.NewNop(),
	})
}

func TestAutofillRequiresConsent(t *testing.T) {
	oracle := &test.OracleStub{}
	u := newIntake(oracle, test.RedactorStub{}, test.DocumentExtractorStub{})

	_, err := u.Autofill(context.Background(), model.AutofillInput{Text: "offer"})
	require.ErrorIs(t, err, domainErrors.ErrConsentRequired)
	require.Zero(t, oracle.CallCount())
}

func TestAutofillBlankTextReturnsEmptyDraft(t *testing.T) {
	oracle := &test.OracleStub{}
	u := newIntake(oracle, test.RedactorStub{}, test.DocumentExtractorStub{})

	draft, err := u.Autofill(context.Background(), model.AutofillInput{Text: " \n ", Title: " Keep ", Consent: true})
	require.NoError(t, err)
	require.Equal(t, "Keep", draft.Title)
	require.Empty(t, draft.Lines)
	require.Zero(t, oracle.CallCount())
}

func TestAutofillExtractsOffer(t *testing.T) {
	oracle := &test.OracleStub{Responses: map[string]string{
		offerSchema.Name: offerResponse,
		titleSchema.Name: `{"title":"Office furniture"}`,
	}}
	u := newIntake(oracle, test.RedactorStub{}, test.DocumentExtractorStub{})

	draft, err := u.Autofill(context.Background(), model.AutofillInput{Text: "Angebot “Möbel”", Consent: true})
	require.NoError(t, err)

	require.Equal(t, "Office Supplies GmbH", draft.VendorName)
	require.Equal(t, "DE123456789", draft.VendorVATID)
	require.Empty(t, draft.Department)
	require.Equal(t, model.CurrencyEUR, draft.Currency)
	require.Equal(t, "Office furniture", draft.Title)

	require.Len(t, draft.Lines, 3)
	require.Equal(t, "pcs", draft.Lines[0].Unit)
	require.Equal(t, 399.8, draft.Lines[0].LineTotal)
	require.Equal(t, 675.0, draft.Lines[1].LineTotal)
	require.Zero(t, draft.Lines[2].LineTotal)
	require.Equal(t, "h", draft.Lines[2].Unit)
	require.Equal(t, 1074.8, draft.Subtotal)

	require.Equal(t, 1074.8, *draft.PositionsNet)
	require.Equal(t, 19.9, *draft.ShippingNet)
	require.Nil(t, draft.TaxAmount)
	require.Equal(t, 1302.69, *draft.TotalGross)

	require.Equal(t, 2, oracle.CallCount())
	require.Equal(t, `Angebot "Möbel"`, oracle.Calls[0].Prompt.User)
}

func TestAutofillKeepsUserTitle(t *testing.T) {
	oracle := &test.OracleStub{Responses: map[string]string{offerSchema.Name: offerResponse}}
	u := newIntake(oracle, test.RedactorStub{}, test.DocumentExtractorStub{})

	draft, err := u.Autofill(context.Background(), model.AutofillInput{Text: "offer", Title: "My title", Consent: true})
	require.NoError(t, err)
	require.Equal(t, "My title", draft.Title)
	require.Equal(t, 1, oracle.CallCount())
}

func TestAutofillSendsOnlyRedactedText(t *testing.T) {
	oracle := &test.OracleStub{Responses: map[string]string{
		offerSchema.Name: `{"order_lines":[],"currency":"CHF"}`,
		titleSchema.Name: `{"title":"t"}`,
	}}
	redactor := test.RedactorStub{RedactFn: func(s string) string {
		return strings.ReplaceAll(s, "jane@example.com", "[EMAIL]")
	}}
	docs := test.DocumentExtractorStub{Text: "Contact jane@example.com"}
	u := newIntake(oracle, redactor, docs)

	draft, err := u.Autofill(context.Background(), model.AutofillInput{Document: []byte("x"), Filename: "offer.txt", Consent: true})
	require.NoError(t, err)
	require.Empty(t, draft.Currency)
	require.Equal(t, "Contact [EMAIL]", oracle.Calls[0].Prompt.User)
}

func TestAutofillErrors(t *testing.T) {
	docErr := test.DocumentExtractorStub{Err: domainErrors.ErrUnsupportedDocument}
	u := newIntake(&test.OracleStub{}, test.RedactorStub{}, docErr)
	_, err := u.Autofill(context.Background(), model.AutofillInput{Document: []byte("%PDF"), Filename: "a.pdf", Consent: true})
	require.ErrorIs(t, err, domainErrors.ErrUnsupportedDocument)

	secret := "IBAN DE89370400440532013000"
	failing := &test.OracleStub{Err: errors.New("status 500")}
	u = newIntake(failing, test.RedactorStub{}, test.DocumentExtractorStub{})
	_, err = u.Autofill(context.Background(), model.AutofillInput{Text: secret, Consent: true})
	require.ErrorIs(t, err, domainErrors.ErrExtractionFailed)
	require.NotContains(t, err.Error(), secret)
}
