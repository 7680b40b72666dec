package domain

import "time"

// Segment represents one security's stable identity over a contiguous time
// window. Segments for the same security key never overlap in time; the raw
// identity source is assumed already segmented per that contract.
//
// Open-ended windows are represented by sentinel dates (see config.Resolution),
// never by zero times.
type Segment struct {
	SecurityKey  int64     `json:"security_key" csv:"security_key"`
	GroupKey     int64     `json:"group_key,omitempty" csv:"group_key"`
	ValidFrom    time.Time `json:"valid_from" csv:"valid_from"`
	ValidTo      time.Time `json:"valid_to" csv:"valid_to"`
	Name         string    `json:"name" csv:"name"`
	Ticker       string    `json:"ticker" csv:"ticker"`
	TradingSym   string    `json:"trading_symbol,omitempty" csv:"trading_symbol"`
	ShareClass   string    `json:"share_class,omitempty" csv:"share_class"`
	ShareCode    int       `json:"share_code" csv:"share_code"`
	IsCommon     bool      `json:"is_common" csv:"is_common"`
	ExchangeCode int       `json:"exchange_code" csv:"exchange_code"`
	Exchange     string    `json:"exchange" csv:"exchange"`
	CUSIP        string    `json:"cusip" csv:"cusip"`
	CUSIP6       string    `json:"cusip6" csv:"cusip6"`
}

// Days returns the number of days covered by the segment window, clamped at 0.
func (s Segment) Days() int {
	d := int(s.ValidTo.Sub(s.ValidFrom).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// IsValid checks that the segment carries the minimum required identity.
func (s Segment) IsValid() bool {
	return s.SecurityKey > 0 && !s.ValidFrom.IsZero() && !s.ValidTo.IsZero() &&
		!s.ValidTo.Before(s.ValidFrom)
}
