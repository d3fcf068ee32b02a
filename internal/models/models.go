package models

import (
	"time"
)

const (
	CategoryLaptop        = "Laptop"
	CategoryMobile        = "Mobile"
	CategoryAccessories   = "Accessories"
	CategoryHomeAppliance = "Home Appliance"
	CategoryClothes       = "Clothes"
	CategoryFurniture     = "Furniture"
	CategoryBooks         = "Books"
	CategoryKitchen       = "Kitchen & Lifestyle"
	CategoryTransport     = "Transport & Outdoor"
)

// Categories lists every listing category in display order.
var Categories = []string{
	CategoryLaptop,
	CategoryMobile,
	CategoryAccessories,
	CategoryHomeAppliance,
	CategoryClothes,
	CategoryFurniture,
	CategoryBooks,
	CategoryKitchen,
	CategoryTransport,
}

// CategoryWeights is the average item weight in grams per category, used when
// a listing does not state its own weight.
var CategoryWeights = map[string]float64{
	CategoryLaptop:        2500,
	CategoryMobile:        200,
	CategoryAccessories:   100,
	CategoryHomeAppliance: 5000,
	CategoryClothes:       300,
	CategoryFurniture:     8000,
	CategoryBooks:         400,
	CategoryKitchen:       250,
	CategoryTransport:     12000,
}

// Credential is one entry of the userCredentials list.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Badges holds one monotonic flag per defined badge.
type Badges struct {
	FirstOrder           bool `json:"firstOrder"`
	CO2Milestone         bool `json:"co2Milestone"`
	ElectronicsMilestone bool `json:"electronicsMilestone"`
}

// UserStats is the durable progression record of one account.
// Masses are in grams, TotalSpent in currency units.
type UserStats struct {
	OrderCount       int     `json:"orderCount"`
	EWasteSaved      float64 `json:"eWasteSaved"`
	CO2Saved         float64 `json:"co2Saved"`
	TotalSpent       float64 `json:"totalSpent"`
	EWasteItemsSaved int     `json:"eWasteItemsSaved"`
	Badges           Badges  `json:"badges"`
}

// Impact is what a completed purchase contributes to the buyer's statistics.
type Impact struct {
	EWasteMass float64 `json:"eWasteMass"`
	CO2Mass    float64 `json:"co2Mass"`
	Price      float64 `json:"price"`
	Category   string  `json:"category"`
}

// EcoImpact is the waste and CO₂ avoided by reusing one unit, in grams.
type EcoImpact struct {
	EWasteSaved float64 `json:"eWasteSaved" yaml:"eWasteSaved"`
	CO2Saved    float64 `json:"co2Saved" yaml:"co2Saved"`
}

// Product is one listing of the products record.
type Product struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	Weight      float64   `json:"weight" yaml:"weight"`
	Quantity    int       `json:"quantity" yaml:"quantity"`
	EcoImpact   EcoImpact `json:"ecoImpact" yaml:"ecoImpact"`
	SellerID    string    `json:"sellerId" yaml:"sellerId"`
	SellerName  string    `json:"sellerName" yaml:"sellerName"`
	CreatedAt   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Impact returns the statistics contribution of buying one unit of p.
func (p Product) Impact() Impact {
	return Impact{
		EWasteMass: p.EcoImpact.EWasteSaved,
		CO2Mass:    p.EcoImpact.CO2Saved,
		Price:      p.Price,
		Category:   p.Category,
	}
}
