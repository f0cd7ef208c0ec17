package domain

// Brewery is a sake brewery with a booth on the venue floor plan.
// Breweries are reference data loaded by the seeder; the API never
// creates or deletes them.
type Brewery struct {
	ID           int64   `json:"breweryId"`
	Name         string  `json:"name"`
	BoothNumber  *int    `json:"boothNumber"`
	MapPositionX float64 `json:"mapPositionX"`
	MapPositionY float64 `json:"mapPositionY"`
	Area         *string `json:"area"`
}
