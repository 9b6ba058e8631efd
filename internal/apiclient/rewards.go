package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

// GenerateRewardsCSV downloads the rewards sheet as raw CSV bytes.
func (c *Client) GenerateRewardsCSV(ctx context.Context) ([]byte, error) {
	return c.request(ctx, http.MethodGet, pathRewardsCSV, nil, nil, opRewardsCSV)
}

// UpdateGoogleSheet regenerates the private rewards sheet.
func (c *Client) UpdateGoogleSheet(ctx context.Context) (model.SheetResult, error) {
	return c.updateSheet(ctx, nil, opUpdateSheet)
}

// UpdatePublicGoogleSheet regenerates the public rewards sheet.
func (c *Client) UpdatePublicGoogleSheet(ctx context.Context) (model.SheetResult, error) {
	return c.updateSheet(ctx, url.Values{"public": {"true"}}, opUpdatePublic)
}

func (c *Client) updateSheet(ctx context.Context, query url.Values, op string) (model.SheetResult, error) {
	var resp sheetResponse
	if err := c.getJSON(ctx, pathRewardsSheet, query, op, &resp); err != nil {
		return model.SheetResult{}, err
	}
	return model.SheetResult{SheetURL: strings.TrimSpace(resp.SheetURL)}, nil
}

// MarkAmbassadorPaid records a payout for the ambassador with the given
// phone number. The request is validated first and nothing is sent when it
// is invalid. Repeated calls record repeated payouts.
func (c *Client) MarkAmbassadorPaid(ctx context.Context, phone, note string) error {
	req := model.MarkPaidRequest{Phone: strings.TrimSpace(phone), Note: note}
	if err := c.ValidateMarkPaid(req); err != nil {
		return err
	}

	var body any
	if req.Note != "" {
		body = markPaidBody{Note: req.Note}
	}
	_, err := c.request(ctx, http.MethodPost, pathRewardsMarkPaid, url.Values{"phone": {req.Phone}}, body, opMarkPaid)
	return err
}

// ValidateMarkPaid checks the phone number and note of a payout request.
// The returned error is a KindValidation *Error with a user-facing message.
func (c *Client) ValidateMarkPaid(req model.MarkPaidRequest) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return validationError("Invalid payout request", err)
	}
	return &Error{Kind: KindValidation, Op: markPaidMessage(verrs[0])}
}

func markPaidMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Phone":
		switch fe.Tag() {
		case "required":
			return "Please enter a phone number"
		default:
			return "Please enter a valid phone number with country code (e.g., +1234567890)"
		}
	case "Note":
		return fmt.Sprintf("Note must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("Invalid %s", strings.ToLower(fe.Field()))
	}
}
