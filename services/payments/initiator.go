package payments

import (
	// Go Internal Packages
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	// Local Packages
	errors "daimapay/errors"
	models "daimapay/models"
	utils "daimapay/utils"

	// External Packages
	"go.uber.org/zap"
)

type PaymentAPI interface {
	InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error)
}

// TopupRequest is the raw form input
type TopupRequest struct {
	RecipientNumber string `json:"recipientNumber"`
	Amount          string `json:"amount"`
	PayerNumber     string `json:"payerNumber"`
}

type Initiator struct {
	Logger    *zap.Logger
	API       PaymentAPI
	Store     models.TransactionStore
	MinAmount float64

	// Now is the clock used for CreatedAt, defaults to time.Now
	Now func() time.Time
}

func NewInitiator(logger *zap.Logger, api PaymentAPI, store models.TransactionStore, minAmount float64) *Initiator {
	return &Initiator{Logger: logger, API: api, Store: store, MinAmount: minAmount, Now: time.Now}
}

// Initiate validates the form input, asks the payment API to push an M-Pesa
// prompt and records the attempt as PENDING. Nothing is stored unless the
// API accepted the request.
func (i *Initiator) Initiate(ctx context.Context, in TopupRequest) (*models.TransactionRecord, error) {
	req, err := i.Validate(in)
	if err != nil {
		return nil, err
	}

	i.Logger.Info("initiating payment",
		zap.String("recipient", req.RecipientNumber),
		zap.String("payer", req.PayerNumber),
		zap.Float64("amount", req.Amount))

	resp, err := i.API.InitiatePayment(ctx, req)
	if err != nil {
		i.Logger.Error("payment initiation failed", zap.Error(err))
		return nil, err
	}

	now := i.Now().UTC()
	referenceID := resp.ReferenceID()
	if referenceID == "" {
		referenceID = models.LocalReferenceID(now)
		i.Logger.Warn("payment api returned no reference id, using placeholder", zap.String("reference_id", referenceID))
	}

	rec := models.TransactionRecord{
		ReferenceID:     referenceID,
		RecipientNumber: req.RecipientNumber,
		PayerNumber:     req.PayerNumber,
		Amount:          strconv.FormatFloat(req.Amount, 'f', -1, 64),
		Status:          models.StatusPending,
		CreatedAt:       now,
	}
	if err := i.Store.Put(ctx, rec); err != nil {
		i.Logger.Error("failed to save transaction locally", zap.String("reference_id", referenceID), zap.Error(err))
		if errors.KindOf(err) != errors.Storage {
			err = errors.StorageUnavailableErr("put", err)
		}
		return &rec, err
	}

	i.Logger.Info("transaction saved locally", zap.String("reference_id", referenceID))
	return &rec, nil
}

// Validate checks and normalizes the form input without touching the network
func (i *Initiator) Validate(in TopupRequest) (models.PaymentRequest, error) {
	ve := errors.ValidationErrs()
	req := models.PaymentRequest{}

	recipient := strings.TrimSpace(in.RecipientNumber)
	amount := strings.TrimSpace(in.Amount)
	payer := strings.TrimSpace(in.PayerNumber)

	if recipient == "" {
		ve.Add("recipientNumber", "cannot be empty")
	} else if num, ok := utils.NormalizePhone(recipient); !ok {
		ve.Add("recipientNumber", "must be a valid 254 phone number")
	} else {
		req.RecipientNumber = num
	}

	if payer == "" {
		ve.Add("payerNumber", "cannot be empty")
	} else if num, ok := utils.NormalizePhone(payer); !ok {
		ve.Add("payerNumber", "must be a valid 254 phone number")
	} else {
		req.PayerNumber = num
	}

	if amount == "" {
		ve.Add("amount", "cannot be empty")
	} else if v, err := strconv.ParseFloat(amount, 64); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		ve.Add("amount", "must be a number")
	} else if v <= 0 {
		ve.Add("amount", "must be greater than zero")
	} else if v < i.MinAmount {
		ve.Add("amount", fmt.Sprintf("must be at least %s", strconv.FormatFloat(i.MinAmount, 'f', -1, 64)))
	} else {
		req.Amount = v
	}

	if err := ve.Err(); err != nil {
		return models.PaymentRequest{}, errors.ValidationFailedErr(err)
	}
	return req, nil
}
