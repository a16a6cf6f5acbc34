package skc

import "time"

// Status is the closed set of tracking states an SKC moves through.
type Status string

const (
	StatusPriceApproved Status = "核价通过"
	StatusStockPulled   Status = "拉过库存"
	StatusPricePending  Status = "价格待定"
	StatusVolumeChanged Status = "改过体积"
	StatusPriceError    Status = "价格错误"
	StatusStockDepleted Status = "减少库存为0"
	StatusDelisted      Status = "已下架"
)

// unknownPriority sorts any status outside the closed set after all known ones.
const unknownPriority = 999

var statusPriority = map[Status]int{
	StatusPriceApproved: 1,
	StatusStockPulled:   2,
	StatusPricePending:  3,
	StatusVolumeChanged: 4,
	StatusPriceError:    5,
	StatusStockDepleted: 6,
	StatusDelisted:      7,
}

// AllStatuses returns the closed status set in priority order.
func AllStatuses() []Status {
	return []Status{
		StatusPriceApproved,
		StatusStockPulled,
		StatusPricePending,
		StatusVolumeChanged,
		StatusPriceError,
		StatusStockDepleted,
		StatusDelisted,
	}
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	_, ok := statusPriority[s]
	return ok
}

// Priority returns the ranking priority of s; lower sorts first.
func (s Status) Priority() int {
	if p, ok := statusPriority[s]; ok {
		return p
	}
	return unknownPriority
}

// SKC is the atomic status-tracked item under a product.
type SKC struct {
	Code      string    `json:"code"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
