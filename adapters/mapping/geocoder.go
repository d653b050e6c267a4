package mapping

import (
	"context"
	"os"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/goccy/go-json"

	"greenquote/core/geo"
	"greenquote/core/types"
	"greenquote/internal/errors"
)

const (
	indexTolerance = 0.0001
	minChildren    = 25
	maxChildren    = 50
	dimensions     = 2
)

// PlaceRecord is one known address in the geocoder's index.
type PlaceRecord struct {
	Address      string  `json:"address"`
	StreetNumber string  `json:"street_number"`
	Street       string  `json:"street"`
	City         string  `json:"city"`
	Region       string  `json:"region"`
	PostalCode   string  `json:"postal_code"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

// spatialRecord wraps a record to implement rtreego.Spatial.
type spatialRecord struct {
	rec  *PlaceRecord
	rect *rtreego.Rect
}

func (s *spatialRecord) Bounds() *rtreego.Rect { return s.rect }

// Geocoder resolves free-text addresses against an indexed set of known
// places. Text matching picks the candidate; the R-tree serves spatial
// queries (nearby places, places within a viewport).
type Geocoder struct {
	tree    *rtreego.Rtree
	records []*PlaceRecord
}

// NewGeocoder indexes the given records.
func NewGeocoder(records []PlaceRecord) *Geocoder {
	g := &Geocoder{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}
	for i := range records {
		rec := records[i]
		p := rtreego.Point{rec.Lat, rec.Lng}
		g.tree.Insert(&spatialRecord{rec: &rec, rect: p.ToRect(indexTolerance)})
		g.records = append(g.records, &rec)
	}
	return g
}

// LoadRecords reads a JSON array of place records from disk.
func LoadRecords(path string) ([]PlaceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "reading place index", err)
	}
	var records []PlaceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "parsing place index", err)
	}
	return records, nil
}

// ResolveAddress matches the query's tokens against indexed addresses and
// returns the best-scoring place. A query matching nothing yields a
// NOT_FOUND error.
func (g *Geocoder) ResolveAddress(ctx context.Context, text string) (*types.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Geocoding("resolution canceled", err)
	}

	query := tokenSet(text)
	if len(query) == 0 {
		return nil, errors.NotFound("address", text)
	}

	var best *PlaceRecord
	bestScore := 0
	for _, rec := range g.records {
		score := matchScore(query, rec)
		if score > bestScore {
			best, bestScore = rec, score
		}
	}
	// A street-name hit alone scores 2; anything below that is noise.
	if best == nil || bestScore < 2 {
		return nil, errors.NotFound("address", text)
	}

	return placeFor(best), nil
}

// AreaSqMeters implements the mapping collaborator's measurement
// primitive with the in-process spherical formula.
func (g *Geocoder) AreaSqMeters(ring types.Ring) float64 {
	return geo.GeodesicAreaSqMeters(ring)
}

// FitViewTo picks the viewport and zoom for the place and canvas rings.
func (g *Geocoder) FitViewTo(place *types.Place, rings []types.Ring) (types.BoundingBox, int) {
	return fitViewTo(place, rings)
}

// Nearby returns the n indexed places closest to the coordinate.
func (g *Geocoder) Nearby(c types.Coordinate, n int) []*PlaceRecord {
	results := g.tree.NearestNeighbors(n, rtreego.Point{c.Lat, c.Lng})
	out := make([]*PlaceRecord, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		out = append(out, r.(*spatialRecord).rec)
	}
	return out
}

// Within returns the indexed places inside the box.
func (g *Geocoder) Within(box types.BoundingBox) []*PlaceRecord {
	bounds, err := rtreego.NewRect(
		rtreego.Point{box.SouthWest.Lat, box.SouthWest.Lng},
		[]float64{
			box.NorthEast.Lat - box.SouthWest.Lat,
			box.NorthEast.Lng - box.SouthWest.Lng,
		},
	)
	if err != nil {
		return nil
	}
	var out []*PlaceRecord
	for _, r := range g.tree.SearchIntersect(bounds) {
		out = append(out, r.(*spatialRecord).rec)
	}
	return out
}

// Size returns the number of indexed places.
func (g *Geocoder) Size() int { return len(g.records) }

func placeFor(rec *PlaceRecord) *types.Place {
	center := types.Coordinate{Lat: rec.Lat, Lng: rec.Lng}
	place := &types.Place{
		FormattedAddress: rec.Address,
		Center:           &center,
		Components: types.AddressComponents{
			StreetNumber: rec.StreetNumber,
			Street:       rec.Street,
			City:         rec.City,
			Region:       rec.Region,
			PostalCode:   rec.PostalCode,
		},
	}
	radius := float64(neighborhoodViewRadius)
	if place.Components.HasStreetAddress() {
		radius = parcelViewRadius
	}
	viewport := boxAround(center, radius)
	place.Viewport = &viewport
	return place
}

// matchScore counts the query tokens found in the record, weighting the
// street number and street name so "123 Main St" beats a city-only hit.
func matchScore(query map[string]bool, rec *PlaceRecord) int {
	score := 0
	if rec.StreetNumber != "" && query[strings.ToUpper(rec.StreetNumber)] {
		score += 3
	}
	streetHit := false
	for token := range tokenSet(rec.Street) {
		if query[token] {
			streetHit = true
			score++
		}
	}
	if streetHit {
		score++
	}
	for token := range tokenSet(rec.City) {
		if query[token] {
			score++
		}
	}
	if rec.PostalCode != "" && query[strings.ToUpper(rec.PostalCode)] {
		score += 2
	}
	return score
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		out[tok] = true
	}
	return out
}
