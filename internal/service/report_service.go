package service

import (
	"context"
	"sort"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/repository"

	"github.com/google/uuid"
)

const (
	topProductLimit = 5
	salesDayLimit   = 7
)

// ProductSales is the aggregated performance of one product in a window.
type ProductSales struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Revenue   float64   `json:"revenue"`
}

// DailySales is one day's completed-order revenue.
type DailySales struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// SalesSummary aggregates completed orders over a time window.
type SalesSummary struct {
	TotalSales    float64        `json:"total_sales"`
	TotalOrders   int            `json:"total_orders"`
	AvgOrderValue float64        `json:"avg_order_value"`
	TopProducts   []ProductSales `json:"top_products"`
	SalesByDay    []DailySales   `json:"sales_by_day"`
}

// ReportService derives sales summaries from completed orders. It holds no
// state of its own; every summary is a fresh query and reduction.
type ReportService interface {
	Summary(ctx context.Context, start, end time.Time) (*SalesSummary, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

// Summary reduces completed orders in [start, end] into totals, the top five
// products by revenue, and a per-day sales series.
func (s *reportService) Summary(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	orders, err := s.orderRepo.ListCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		TopProducts: []ProductSales{},
		SalesByDay:  []DailySales{},
	}

	totalSales := 0.0
	for _, order := range orders {
		totalSales += order.TotalAmount
	}
	summary.TotalSales = domain.RoundCents(totalSales)
	summary.TotalOrders = len(orders)
	if summary.TotalOrders > 0 {
		summary.AvgOrderValue = domain.RoundCents(totalSales / float64(summary.TotalOrders))
	}

	summary.TopProducts = topProducts(orders)
	summary.SalesByDay = salesByDay(orders)

	return summary, nil
}

// topProducts groups items by product, sums quantity and revenue, and keeps
// the five highest-revenue products. The sort is stable, so ties keep the
// order in which the products were first encountered across orders sorted by
// creation time ascending.
func topProducts(orders []*domain.OrderWithItems) []ProductSales {
	byProduct := make(map[uuid.UUID]*ProductSales)
	encounter := []uuid.UUID{}

	for _, order := range orders {
		for _, item := range order.Items {
			agg, ok := byProduct[item.ProductID]
			if !ok {
				agg = &ProductSales{ProductID: item.ProductID, Name: item.ProductName}
				byProduct[item.ProductID] = agg
				encounter = append(encounter, item.ProductID)
			}
			agg.Quantity += item.Quantity
			agg.Revenue += item.PriceAtTime * float64(item.Quantity)
		}
	}

	ranked := make([]ProductSales, 0, len(encounter))
	for _, id := range encounter {
		agg := byProduct[id]
		agg.Revenue = domain.RoundCents(agg.Revenue)
		ranked = append(ranked, *agg)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})

	if len(ranked) > topProductLimit {
		ranked = ranked[:topProductLimit]
	}
	return ranked
}

// salesByDay groups orders by local calendar day and keeps the most recent
// seven distinct days, ascending. Orders arrive sorted by creation time
// ascending, so the encounter order of days is already ascending.
func salesByDay(orders []*domain.OrderWithItems) []DailySales {
	byDay := make(map[string]float64)
	days := []string{}

	for _, order := range orders {
		day := order.CreatedAt.Local().Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] += order.TotalAmount
	}

	if len(days) > salesDayLimit {
		days = days[len(days)-salesDayLimit:]
	}

	series := make([]DailySales, 0, len(days))
	for _, day := range days {
		series = append(series, DailySales{Date: day, Amount: domain.RoundCents(byDay[day])})
	}
	return series
}
