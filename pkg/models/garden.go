package models

import "time"

const (
	AreaUnitMeters = "m"
	AreaUnitFeet   = "ft"
)

type AreaConfig struct {
	Area float64 `json:"area" validate:"gt=0"`
	Unit string  `json:"unit" validate:"required,oneof=m ft"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlantData is one plant model placed in a garden. ID is the plant catalog id and may
// repeat within a garden.
type PlantData struct {
	ID           *int     `json:"id"`
	Name         string   `json:"name"`
	Icon         string   `json:"icon"`
	ModelType    string   `json:"modelType"`
	Category     string   `json:"category"`
	Height       float64  `json:"height"`
	Spread       float64  `json:"spread"`
	Position     *Vector3 `json:"position"`
	Rotation     *Vector3 `json:"rotation"`
	Color        string   `json:"color"`
	FoliageColor string   `json:"foliageColor"`
}

// PlantDataCreate is a plant as submitted in a request. Text fields are pointers so that
// "required" checks the key is present while still accepting an empty string.
type PlantDataCreate struct {
	ID           *int     `json:"id" validate:"required"`
	Name         *string  `json:"name" validate:"required"`
	Icon         *string  `json:"icon" validate:"required"`
	ModelType    *string  `json:"modelType" validate:"required"`
	Category     *string  `json:"category" validate:"required"`
	Height       float64  `json:"height" validate:"gt=0"`
	Spread       float64  `json:"spread" validate:"gt=0"`
	Position     *Vector3 `json:"position" validate:"required"`
	Rotation     *Vector3 `json:"rotation" validate:"required"`
	Color        *string  `json:"color" validate:"required"`
	FoliageColor *string  `json:"foliageColor" validate:"required"`
}

func (p PlantDataCreate) toPlantData() PlantData {
	return PlantData{
		ID:           p.ID,
		Name:         deref(p.Name),
		Icon:         deref(p.Icon),
		ModelType:    deref(p.ModelType),
		Category:     deref(p.Category),
		Height:       p.Height,
		Spread:       p.Spread,
		Position:     p.Position,
		Rotation:     p.Rotation,
		Color:        deref(p.Color),
		FoliageColor: deref(p.FoliageColor),
	}
}

// Garden is a saved landscaping design.
type Garden struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Timestamp  time.Time   `json:"timestamp"`
	AreaConfig AreaConfig  `json:"areaConfig"`
	LandShape  LandShape   `json:"landShape"`
	Plants     []PlantData `json:"plants"`
}

// GardenCreate is the request body for saving a design. landShape and plants must be
// present but may be empty.
type GardenCreate struct {
	Name       *string           `json:"name" validate:"required"`
	AreaConfig *AreaConfig       `json:"areaConfig" validate:"required"`
	LandShape  LandShape         `json:"landShape" validate:"required"`
	Plants     []PlantDataCreate `json:"plants" validate:"required,dive"`
}

func NewGarden(input GardenCreate, id string, createdAt time.Time) Garden {
	garden := Garden{
		ID:        id,
		Name:      deref(input.Name),
		Timestamp: StoredTime(createdAt),
		LandShape: input.LandShape,
		Plants:    make([]PlantData, 0, len(input.Plants)),
	}
	if input.AreaConfig != nil {
		garden.AreaConfig = *input.AreaConfig
	}
	if garden.LandShape == nil {
		garden.LandShape = LandShape{}
	}
	for _, p := range input.Plants {
		garden.Plants = append(garden.Plants, p.toPlantData())
	}
	return garden
}
