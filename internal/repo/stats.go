// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used by the
// dashboard endpoint. Each function is context-aware and safe to call from
// services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
)

// DashboardStats is the aggregate snapshot rendered on the admin landing page.
type DashboardStats struct {
	ActiveStudents int64   `json:"active_students"`
	TotalSeats     int64   `json:"total_seats"`
	OccupiedSeats  int64   `json:"occupied_seats"`
	MonthRevenue   float64 `json:"month_revenue"`
	MonthExpenses  float64 `json:"month_expenses"`
}

// LoadDashboardStats computes counts and current-month money totals in a
// handful of lightweight queries. The month window is [start of month, now].
func LoadDashboardStats(ctx context.Context, db *gorm.DB, now time.Time) (DashboardStats, error) {
	var out DashboardStats
	h := db.WithContext(ctx)

	if err := h.Model(&domain.Student{}).
		Where("membership_status = ?", domain.StatusActive).
		Count(&out.ActiveStudents).Error; err != nil {
		return out, err
	}
	if err := h.Model(&domain.Seat{}).Count(&out.TotalSeats).Error; err != nil {
		return out, err
	}
	if err := h.Model(&domain.Seat{}).
		Where("occupied = ?", true).
		Count(&out.OccupiedSeats).Error; err != nil {
		return out, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue struct{ Total float64 }
	if err := h.Model(&domain.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("payment_date >= ? AND payment_date <= ?", monthStart, now).
		Scan(&revenue).Error; err != nil {
		return out, err
	}
	out.MonthRevenue = revenue.Total

	var expenses struct{ Total float64 }
	if err := h.Model(&domain.Expense{}).
		Select("COALESCE(SUM(cost), 0) AS total").
		Where("expense_date >= ? AND expense_date <= ?", monthStart, now).
		Scan(&expenses).Error; err != nil {
		return out, err
	}
	out.MonthExpenses = expenses.Total

	return out, nil
}
