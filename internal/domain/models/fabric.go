package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InputMode tells how the purchased quantity was entered.
type InputMode string

const (
	InputModeYard InputMode = "yard"
	InputModeRoll InputMode = "roll"
)

// DiscountType enumerates the supported discount rules.
type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountOverall DiscountType = "overall"
	DiscountPerYard DiscountType = "perYard"
	DiscountPerRoll DiscountType = "perRoll"
)

// Fabric lifecycle events, used for metrics labels and the ledger mirror.
const (
	EventCreated  = "created"
	EventUpdated  = "updated"
	EventProduced = "produced"
	EventDeleted  = "deleted"
)

// DefaultApparelLengthInches is the garment length used when none is supplied.
const DefaultApparelLengthInches = 65

// Fabric is a stored fabric purchase record. The amount and item fields are
// always derived server side and never taken from a request body.
type Fabric struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FabricName   string             `bson:"fabricName" json:"fabricName"`
	FabricHeight string             `bson:"fabricHeight" json:"fabricHeight"`

	PricePerYard        float64 `bson:"pricePerYard" json:"pricePerYard"`
	ApparelLengthInches float64 `bson:"apparelLengthInches" json:"apparelLengthInches"`

	InputMode    InputMode `bson:"inputMode" json:"inputMode"`
	NumYards     float64   `bson:"numYards" json:"numYards"`
	NumRolls     float64   `bson:"numRolls" json:"numRolls"`
	YardsPerRoll float64   `bson:"yardsPerRoll" json:"yardsPerRoll"`

	ReceiveDiscount        bool         `bson:"receiveDiscount" json:"receiveDiscount"`
	DiscountType           DiscountType `bson:"discountType" json:"discountType"`
	OverallDiscountAmount  float64      `bson:"overallDiscountAmount" json:"overallDiscountAmount"`
	DiscountedPricePerYard float64      `bson:"discountedPricePerYard" json:"discountedPricePerYard"`
	DiscountedPricePerRoll float64      `bson:"discountedPricePerRoll" json:"discountedPricePerRoll"`

	OriginalAmount   float64 `bson:"originalAmount" json:"originalAmount"`
	DiscountedAmount float64 `bson:"discountedAmount" json:"discountedAmount"`
	TotalAmount      float64 `bson:"totalAmount" json:"totalAmount"`

	ExpectedItems       int64   `bson:"expectedItems" json:"expectedItems"`
	ActualProducedItems float64 `bson:"actualProducedItems" json:"actualProducedItems"`

	Deleted   bool      `bson:"deleted" json:"deleted"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FabricInput is the client submission for create and full update requests.
// It deliberately carries no derived fields.
type FabricInput struct {
	FabricName   string `json:"fabricName" validate:"required"`
	FabricHeight string `json:"fabricHeight"`

	PricePerYard        Number `json:"pricePerYard"`
	ApparelLengthInches Number `json:"apparelLengthInches"`

	InputMode    string `json:"inputMode" validate:"required,oneof=yard roll"`
	NumYards     Number `json:"numYards"`
	NumRolls     Number `json:"numRolls"`
	YardsPerRoll Number `json:"yardsPerRoll"`

	ReceiveDiscount        Flag   `json:"receiveDiscount"`
	DiscountType           string `json:"discountType"`
	OverallDiscountAmount  Number `json:"overallDiscountAmount"`
	DiscountedPricePerYard Number `json:"discountedPricePerYard"`
	DiscountedPricePerRoll Number `json:"discountedPricePerRoll"`

	ActualProducedItems Number `json:"actualProducedItems"`
}

// ActualProducedInput is the body of the narrow production patch.
type ActualProducedInput struct {
	ActualProducedItems Number `json:"actualProducedItems"`
}

// ActualProducedResult pairs the patched record with the production gap.
type ActualProducedResult struct {
	Updated    *Fabric `json:"updated"`
	Difference float64 `json:"difference"`
}

// FabricPage is one page of a fabric listing.
type FabricPage struct {
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int64    `json:"total"`
	Items []Fabric `json:"items"`
}
