// Package dashboard holds the per-session statistics view behind the
// overview page and turns it into cards and a chart.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/apiclient"
	"storefront/internal/logging"
)

// Fetcher is satisfied by *apiclient.Client.
type Fetcher interface {
	RevenueStatistics(ctx context.Context) (apiclient.Statistics, error)
}

type Summary struct {
	TotalOrders   float64 `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalUsers    float64 `json:"totalUsers"`
	TotalProducts float64 `json:"totalProducts"`
}

type ProductPoint struct {
	ProductName   string  `json:"ProductName"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalQuantity float64 `json:"totalQuantity"`
}

// Snapshot is a consistent copy of a view's state.
type Snapshot struct {
	Loading   bool           `json:"loading"`
	Summary   Summary        `json:"summary"`
	Products  []ProductPoint `json:"products"`
	Seq       uint64         `json:"seq"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty"`
}

// View is one session's dashboard state.
type View struct {
	mu        sync.Mutex
	loading   bool
	summary   Summary
	products  []ProductPoint
	issued    uint64
	applied   uint64
	updatedAt time.Time
	// fresh is set by a refresh so the page load that follows it does not fetch again.
	fresh bool

	flight singleflight.Group
}

func NewView() *View {
	return &View{products: []ProductPoint{}}
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Snapshot {
	products := make([]ProductPoint, len(v.products))
	copy(products, v.products)
	return Snapshot{
		Loading:   v.loading,
		Summary:   v.summary,
		Products:  products,
		Seq:       v.applied,
		UpdatedAt: v.updatedAt,
	}
}

// fetchTimeout bounds a shared fetch once it no longer follows any caller.
const fetchTimeout = 30 * time.Second

// FetchStatistics loads the aggregates once and replaces the view's state.
// Concurrent calls share a single backend request, which outlives the caller
// that started it: a caller that goes away gets its own ctx.Err() while the
// others still receive the result. On failure the previous state is kept and
// the error is returned after being logged.
func (v *View) FetchStatistics(ctx context.Context, f Fetcher) (Snapshot, error) {
	ch := v.flight.DoChan("statistics", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		seq := v.begin()
		stats, err := f.RevenueStatistics(fetchCtx)
		v.finish(seq, stats, err)
		if err != nil {
			logging.FromContext(ctx).Error("Lỗi khi lấy dữ liệu thống kê", slog.Any("err", err))
		}
		return nil, err
	})
	select {
	case res := <-ch:
		return v.Snapshot(), res.Err
	case <-ctx.Done():
		return v.Snapshot(), ctx.Err()
	}
}

func (v *View) begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued++
	v.loading = true
	return v.issued
}

func (v *View) finish(seq uint64, stats apiclient.Statistics, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	// A result issued before the latest applied one, or before a reset, is stale.
	if err != nil || seq <= v.applied {
		return
	}
	v.applied = seq
	v.summary = Summary{
		TotalOrders:   stats.TotalOrders.Float(),
		TotalRevenue:  stats.TotalRevenueAll.Float(),
		TotalUsers:    stats.TotalUsers.Float(),
		TotalProducts: stats.TotalProducts.Float(),
	}
	products := make([]ProductPoint, 0, len(stats.Products))
	for _, p := range stats.Products {
		products = append(products, ProductPoint{
			ProductName:   p.ProductName,
			TotalRevenue:  p.TotalRevenue.Float(),
			TotalQuantity: p.TotalQuantity.Float(),
		})
	}
	v.products = products
	v.updatedAt = time.Now()
}

// MarkFresh records that the data was just loaded.
func (v *View) MarkFresh() {
	v.mu.Lock()
	v.fresh = true
	v.mu.Unlock()
}

// TakeFresh reports and clears the mark left by MarkFresh.
func (v *View) TakeFresh() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.fresh
	v.fresh = false
	return f
}

// Reset clears the view. Fetches already in flight will not land.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued++
	v.applied = v.issued
	v.loading = false
	v.summary = Summary{}
	v.products = []ProductPoint{}
	v.updatedAt = time.Time{}
	v.fresh = false
}
