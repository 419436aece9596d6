package models

import (
	"errors"
	"strconv"
)

type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

func (t EntryType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *EntryType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("entry type must be string")
	}
	switch str {
	case "INCOME":
		*t = EntryTypeIncome
	case "EXPENSE":
		*t = EntryTypeExpense
	default:
		return errors.New("invalid entry type")
	}
	return nil
}

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusPaid      EntryStatus = "PAID"
	EntryStatusOverdue   EntryStatus = "OVERDUE"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

func (t EntryStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *EntryStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("entry status must be string")
	}
	entryStatuses := map[string]EntryStatus{
		"PENDING":   EntryStatusPending,
		"PAID":      EntryStatusPaid,
		"OVERDUE":   EntryStatusOverdue,
		"CANCELLED": EntryStatusCancelled,
	}
	var ok bool
	*t, ok = entryStatuses[str]
	if !ok {
		return errors.New("invalid entry status")
	}
	return nil
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusApproved QuoteStatus = "APPROVED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

func (t QuoteStatus) IsValid() bool {
	switch t {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

func (t QuoteStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *QuoteStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("quote status must be string")
	}
	quoteStatuses := map[string]QuoteStatus{
		"DRAFT":    QuoteStatusDraft,
		"SENT":     QuoteStatusSent,
		"APPROVED": QuoteStatusApproved,
		"REJECTED": QuoteStatusRejected,
		"EXPIRED":  QuoteStatusExpired,
	}
	var ok bool
	*t, ok = quoteStatuses[str]
	if !ok {
		return errors.New("invalid quote status")
	}
	return nil
}

type ServiceOrderStatus string

const (
	ServiceOrderStatusOpen       ServiceOrderStatus = "OPEN"
	ServiceOrderStatusInProgress ServiceOrderStatus = "IN_PROGRESS"
	ServiceOrderStatusDone       ServiceOrderStatus = "DONE"
	ServiceOrderStatusDelivered  ServiceOrderStatus = "DELIVERED"
	ServiceOrderStatusCancelled  ServiceOrderStatus = "CANCELLED"
)

func (t ServiceOrderStatus) IsValid() bool {
	switch t {
	case ServiceOrderStatusOpen, ServiceOrderStatusInProgress, ServiceOrderStatusDone,
		ServiceOrderStatusDelivered, ServiceOrderStatusCancelled:
		return true
	}
	return false
}

func (t ServiceOrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *ServiceOrderStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("service order status must be string")
	}
	serviceOrderStatuses := map[string]ServiceOrderStatus{
		"OPEN":        ServiceOrderStatusOpen,
		"IN_PROGRESS": ServiceOrderStatusInProgress,
		"DONE":        ServiceOrderStatusDone,
		"DELIVERED":   ServiceOrderStatusDelivered,
		"CANCELLED":   ServiceOrderStatusCancelled,
	}
	var ok bool
	*t, ok = serviceOrderStatuses[str]
	if !ok {
		return errors.New("invalid service order status")
	}
	return nil
}

type StockMovementType string

const (
	StockMovementTypeIn         StockMovementType = "IN"
	StockMovementTypeOut        StockMovementType = "OUT"
	StockMovementTypeAdjustment StockMovementType = "ADJUSTMENT"
)

func (t StockMovementType) IsValid() bool {
	switch t {
	case StockMovementTypeIn, StockMovementTypeOut, StockMovementTypeAdjustment:
		return true
	}
	return false
}

func (t StockMovementType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(t))), nil
}

func (t *StockMovementType) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("stock movement type must be string")
	}
	stockMovementTypes := map[string]StockMovementType{
		"IN":         StockMovementTypeIn,
		"OUT":        StockMovementTypeOut,
		"ADJUSTMENT": StockMovementTypeAdjustment,
	}
	var ok bool
	*t, ok = stockMovementTypes[str]
	if !ok {
		return errors.New("invalid stock movement type")
	}
	return nil
}
