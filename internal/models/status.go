package models

import "strings"

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "Completed"
	PaymentUnpaid    PaymentStatus = "Unpaid"
	PaymentPending   PaymentStatus = "Pending"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentUnknown   PaymentStatus = "N/A"
)

// ParsePaymentStatus is case-insensitive. "Paid" is accepted as Completed.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", "paid", "success", "successful":
		return PaymentCompleted, true
	case "unpaid":
		return PaymentUnpaid, true
	case "pending":
		return PaymentPending, true
	case "failed":
		return PaymentFailed, true
	}
	return PaymentUnknown, false
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryDelivered DeliveryStatus = "Delivered"
	DeliveryDone      DeliveryStatus = "Done"
	DeliveryCancelled DeliveryStatus = "Cancelled"
	DeliveryUnknown   DeliveryStatus = "N/A"
)

func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return DeliveryPending, true
	case "delivered":
		return DeliveryDelivered, true
	case "done":
		return DeliveryDone, true
	case "cancelled", "canceled":
		return DeliveryCancelled, true
	}
	return DeliveryUnknown, false
}

// Fulfilled reports whether the order has already reached the customer.
func (d DeliveryStatus) Fulfilled() bool {
	return d == DeliveryDone || d == DeliveryDelivered
}

type PaymentMode string

const (
	ModeCard  PaymentMode = "Card"
	ModeUPI   PaymentMode = "UPI"
	ModeCash  PaymentMode = "Cash"
	ModeOther PaymentMode = "Other"
)

// ParsePaymentMode never fails; anything unrecognised is ModeOther.
func ParsePaymentMode(s string) PaymentMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card", "credit card", "debit card":
		return ModeCard
	case "upi":
		return ModeUPI
	case "cash", "cod":
		return ModeCash
	}
	return ModeOther
}
