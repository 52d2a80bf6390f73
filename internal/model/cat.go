package model

import (
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// Cat is the record type of the demo listing.
type Cat struct {
	bun.BaseModel `bun:"cats,alias:c"`

	ID           int       `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Age          int       `bun:"age,notnull" json:"age"`
	IsVaccinated null.Bool `bun:"is_vaccinated,type:boolean" json:"isVaccinated"`
	Weight       float64   `bun:"weight,notnull" json:"weight"`
	AdoptionDate null.Time `bun:"adoption_date,type:date" json:"adoptionDate"`
	Color        string    `bun:"color,notnull,default:'BLK'" json:"color"`
	Breed        string    `bun:"breed,notnull,default:'PER'" json:"breed"`
}

var CatColors = []string{"BLK", "WHT", "GRY", "BRN", "ORG"}

var CatBreeds = []string{"PER", "SIA", "BSH", "BEN", "RAG", "SPH", "MCO", "ABY"}
