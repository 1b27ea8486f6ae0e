package models

import "time"

// PurchaseSummary aggregates fabric purchases recorded within a period.
type PurchaseSummary struct {
	From                time.Time `bson:"from" json:"from"`
	To                  time.Time `bson:"to" json:"to"`
	Records             int       `bson:"records" json:"records"`
	TotalYards          float64   `bson:"totalYards" json:"totalYards"`
	OriginalAmount      float64   `bson:"originalAmount" json:"originalAmount"`
	DiscountedAmount    float64   `bson:"discountedAmount" json:"discountedAmount"`
	TotalAmount         float64   `bson:"totalAmount" json:"totalAmount"`
	Savings             float64   `bson:"savings" json:"savings"`
	ExpectedItems       int64     `bson:"expectedItems" json:"expectedItems"`
	ActualProducedItems float64   `bson:"actualProducedItems" json:"actualProducedItems"`
	ProductionGap       float64   `bson:"productionGap" json:"productionGap"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
}
