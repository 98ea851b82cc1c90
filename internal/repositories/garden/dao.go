package garden

import (
	"fmt"

	"github.com/Gobusters/ectolinq"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/utils"
)

const (
	gardensCollection = "gardens"
)

type AreaConfigRow struct {
	Area float64 `bson:"area"`
	Unit string  `bson:"unit"`
}

type Vector3Row struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
	Z float64 `bson:"z"`
}

type PlantRow struct {
	ID           int        `bson:"id"`
	Name         string     `bson:"name"`
	Icon         string     `bson:"icon"`
	ModelType    string     `bson:"modelType"`
	Category     string     `bson:"category"`
	Height       float64    `bson:"height"`
	Spread       float64    `bson:"spread"`
	Position     Vector3Row `bson:"position"`
	Rotation     Vector3Row `bson:"rotation"`
	Color        string     `bson:"color"`
	FoliageColor string     `bson:"foliageColor"`
}

// GardenRow is the stored form of a garden. Land-shape points keep the form they were
// submitted in: arrays stay arrays and {x, y, z} objects stay objects.
type GardenRow struct {
	ID         string        `bson:"id"`
	Name       string        `bson:"name"`
	Timestamp  any           `bson:"timestamp"`
	AreaConfig AreaConfigRow `bson:"areaConfig"`
	LandShape  []any         `bson:"landShape"`
	Plants     []PlantRow    `bson:"plants"`
}

// FromGarden converts a domain model to a stored document
func FromGarden(g models.Garden) GardenRow {
	row := GardenRow{
		ID:        g.ID,
		Name:      g.Name,
		Timestamp: docstore.FormatTimestamp(g.Timestamp),
		AreaConfig: AreaConfigRow{
			Area: g.AreaConfig.Area,
			Unit: g.AreaConfig.Unit,
		},
		LandShape: ectolinq.Map(g.LandShape, fromPoint),
		Plants:    ectolinq.Map(g.Plants, fromPlant),
	}
	// nil slices would be stored as null
	if row.LandShape == nil {
		row.LandShape = []any{}
	}
	if row.Plants == nil {
		row.Plants = []PlantRow{}
	}
	return row
}

// ToGarden converts a stored document to a domain model
func ToGarden(row GardenRow) (models.Garden, error) {
	ts, err := docstore.ParseTimestamp(row.Timestamp)
	if err != nil {
		return models.Garden{}, fmt.Errorf("garden %s: %w", row.ID, err)
	}

	shape := make(models.LandShape, 0, len(row.LandShape))
	for i, v := range row.LandShape {
		p, err := toPoint(v)
		if err != nil {
			return models.Garden{}, fmt.Errorf("garden %s: landShape[%d]: %w", row.ID, i, err)
		}
		shape = append(shape, p)
	}

	plants := ectolinq.Map(row.Plants, toPlant)
	if plants == nil {
		plants = []models.PlantData{}
	}

	return models.Garden{
		ID:        row.ID,
		Name:      row.Name,
		Timestamp: ts,
		AreaConfig: models.AreaConfig{
			Area: row.AreaConfig.Area,
			Unit: row.AreaConfig.Unit,
		},
		LandShape: shape,
		Plants:    plants,
	}, nil
}

func fromPoint(p models.Point) any {
	if !p.Keyed {
		coords := p.Coordinates()
		out := make(bson.A, len(coords))
		for i, c := range coords {
			out[i] = c
		}
		return out
	}

	d := bson.D{{Key: "x", Value: p.X}, {Key: "y", Value: p.Y}}
	if p.Z != nil {
		d = append(d, bson.E{Key: "z", Value: *p.Z})
	}
	return d
}

func toPoint(v any) (models.Point, error) {
	switch t := v.(type) {
	case bson.A:
		return pointFromArray(t)
	case []any:
		return pointFromArray(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return pointFromMap(m)
	case bson.M:
		return pointFromMap(t)
	case map[string]any:
		return pointFromMap(t)
	default:
		return models.Point{}, fmt.Errorf("unsupported point type %T", v)
	}
}

func pointFromArray(values []any) (models.Point, error) {
	coords := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := utils.AnyToType[float64](v)
		if err != nil {
			return models.Point{}, err
		}
		coords = append(coords, f)
	}
	return models.PointFromCoordinates(coords)
}

func pointFromMap(m map[string]any) (models.Point, error) {
	x, err := utils.AnyToType[float64](m["x"])
	if err != nil {
		return models.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := utils.AnyToType[float64](m["y"])
	if err != nil {
		return models.Point{}, fmt.Errorf("y: %w", err)
	}

	p := models.Point{X: x, Y: y, Keyed: true}
	if raw, ok := m["z"]; ok && raw != nil {
		z, err := utils.AnyToType[float64](raw)
		if err != nil {
			return models.Point{}, fmt.Errorf("z: %w", err)
		}
		p.Z = &z
	}
	return p, nil
}

func fromVector(v *models.Vector3) Vector3Row {
	if v == nil {
		return Vector3Row{}
	}
	return Vector3Row{X: v.X, Y: v.Y, Z: v.Z}
}

func toVector(v Vector3Row) *models.Vector3 {
	return &models.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

func fromPlant(p models.PlantData) PlantRow {
	row := PlantRow{
		Name:         p.Name,
		Icon:         p.Icon,
		ModelType:    p.ModelType,
		Category:     p.Category,
		Height:       p.Height,
		Spread:       p.Spread,
		Position:     fromVector(p.Position),
		Rotation:     fromVector(p.Rotation),
		Color:        p.Color,
		FoliageColor: p.FoliageColor,
	}
	if p.ID != nil {
		row.ID = *p.ID
	}
	return row
}

func toPlant(row PlantRow) models.PlantData {
	id := row.ID
	return models.PlantData{
		ID:           &id,
		Name:         row.Name,
		Icon:         row.Icon,
		ModelType:    row.ModelType,
		Category:     row.Category,
		Height:       row.Height,
		Spread:       row.Spread,
		Position:     toVector(row.Position),
		Rotation:     toVector(row.Rotation),
		Color:        row.Color,
		FoliageColor: row.FoliageColor,
	}
}
