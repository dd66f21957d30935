package models

import "time"

// PropertyType is the canonical set of dwelling types tracked by the
// Land Registry feed. The four values are a fixed contract; response
// breakdowns always carry all four, zero-valued when absent.
type PropertyType string

const (
	TypeDetached     PropertyType = "DETACHED"
	TypeSemiDetached PropertyType = "SEMI_DETACHED"
	TypeTerraced     PropertyType = "TERRACED"
	TypeFlat         PropertyType = "FLAT"
)

// AllPropertyTypes lists the canonical types in their contract order.
var AllPropertyTypes = []PropertyType{
	TypeDetached,
	TypeSemiDetached,
	TypeTerraced,
	TypeFlat,
}

// Region is a named geographic grouping of properties, e.g. "London"
// or "North West".
type Region struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Properties   []Property           `json:"-"`
	MonthlyStats []RegionMonthlyStats `json:"-"`
}

// Property is a single recorded sale. Rows are immutable once written.
type Property struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Postcode     string       `gorm:"index;not null" json:"postcode"`
	Price        int          `gorm:"not null" json:"price"`
	PropertyType PropertyType `gorm:"type:varchar(16);index" json:"property_type"`
	DateSold     time.Time    `gorm:"index" json:"date_sold"`
	RegionID     uint         `gorm:"index;not null" json:"region_id"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	CreatedAt    time.Time    `json:"created_at"`

	Region *Region `json:"-"`
}

// RegionMonthlyStats is a derived row materialized by an external
// process and consumed read-only here. At most one row exists per
// (region, month); Month is always the first of the month.
type RegionMonthlyStats struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RegionID       uint      `gorm:"uniqueIndex:idx_region_month;not null" json:"region_id"`
	Month          time.Time `gorm:"uniqueIndex:idx_region_month;not null" json:"month"`
	AveragePrice   int       `json:"average_price"`
	MedianPrice    int       `json:"median_price"`
	SalesCount     int       `json:"sales_count"`
	PriceChangeYoY float64   `gorm:"column:price_change_yoy" json:"price_change_yoy"`
	PriceChangeMoM float64   `gorm:"column:price_change_mom" json:"price_change_mom"`
	DetachedPrice  int       `json:"detached_price"`
	SemiPrice      int       `json:"semi_price"`
	TerracedPrice  int       `json:"terraced_price"`
	FlatPrice      int       `json:"flat_price"`

	Region *Region `json:"-"`
}

// TypeAggregate is a group-by-property-type row from the store.
type TypeAggregate struct {
	PropertyType PropertyType `json:"property_type"`
	Count        int          `json:"count"`
	AveragePrice float64      `json:"average_price"`
}
