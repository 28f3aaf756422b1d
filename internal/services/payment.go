package services

import "example.com/motormart/services/showroom/internal/models"

// PaymentSplit is the money breakdown recorded on a sale.
// PaidAmount + DueAmount always equals TotalAmount.
type PaymentSplit struct {
	TotalAmount        int64
	PaidAmount         int64
	DueAmount          int64
	MonthlyInstallment int64
}

// ComputePaymentSplit derives the split for a sale of the given total.
// For installment sales the advance is taken up front and the remainder is
// spread over the given months, rounding the monthly amount up so the last
// installment can only ever be smaller, never larger. Non-installment
// sales settle in full. Inputs are assumed validated by the caller.
func ComputePaymentSplit(total int64, paymentType models.PaymentType, advance int64, months int) PaymentSplit {
	if paymentType != models.PaymentInstallment {
		return PaymentSplit{
			TotalAmount: total,
			PaidAmount:  total,
		}
	}
	due := total - advance
	return PaymentSplit{
		TotalAmount:        total,
		PaidAmount:         advance,
		DueAmount:          due,
		MonthlyInstallment: ceilDiv(due, int64(months)),
	}
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
