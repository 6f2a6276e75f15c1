// Package lookup provides the closed-vocabulary reference data that
// drives validation and dropdown rendering: genders, hobbies, tech
// interests, and the state/city tree loaded from locations.json.
package lookup

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

var (
	Genders       = []string{"Male", "Female", "Other"}
	Hobbies       = []string{"Reading", "Music", "Sports", "Travel", "Cooking", "Gaming"}
	TechInterests = []string{"Angular", "React", "Node.js", "Java", "Go", "Python"}

	// Vestigial vocabularies, kept for lookup contract compatibility.
	Roles       = []string{"Admin", "Member"}
	Departments = []string{"Engineering", "Marketing", "Sales", "Support"}
	Statuses    = []string{"Active", "Inactive"}
)

type locationFile struct {
	States []struct {
		StateName string `json:"stateName"`
		StateCode string `json:"stateCode"`
		Cities    []struct {
			CityName string `json:"cityName"`
			CityCode string `json:"cityCode"`
		} `json:"cities"`
	} `json:"states"`
}

// Catalog is a pure data provider; all fields are read-only after Load.
type Catalog struct {
	States        []string
	CitiesByState map[string][]string

	genderSet map[string]struct{}
	hobbySet  map[string]struct{}
	techSet   map[string]struct{}
	stateSet  map[string]struct{}
	citySets  map[string]map[string]struct{}
}

// Load reads the state/city tree from the locations asset.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}
	var lf locationFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse locations file: %w", err)
	}

	byState := make(map[string][]string, len(lf.States))
	for _, s := range lf.States {
		cities := make([]string, 0, len(s.Cities))
		for _, c := range s.Cities {
			cities = append(cities, c.CityName)
		}
		byState[s.StateName] = cities
	}
	return New(byState), nil
}

// New builds a catalog from a state→cities mapping, using the fixed
// gender/hobby/tech vocabularies.
func New(citiesByState map[string][]string) *Catalog {
	c := &Catalog{
		CitiesByState: citiesByState,
		genderSet:     toSet(Genders),
		hobbySet:      toSet(Hobbies),
		techSet:       toSet(TechInterests),
		stateSet:      make(map[string]struct{}, len(citiesByState)),
		citySets:      make(map[string]map[string]struct{}, len(citiesByState)),
	}
	for state, cities := range citiesByState {
		c.States = append(c.States, state)
		c.stateSet[state] = struct{}{}
		c.citySets[state] = toSet(cities)
	}
	sort.Strings(c.States)
	return c
}

func (c *Catalog) ValidGender(v string) bool { return contains(c.genderSet, v) }
func (c *Catalog) ValidHobby(v string) bool  { return contains(c.hobbySet, v) }
func (c *Catalog) ValidTech(v string) bool   { return contains(c.techSet, v) }
func (c *Catalog) ValidState(v string) bool  { return contains(c.stateSet, v) }

// ValidCity reports whether city belongs to state's city set.
func (c *Catalog) ValidCity(state, city string) bool {
	return contains(c.citySets[state], city)
}

// Cities returns every known city, deduplicated and sorted.
func (c *Catalog) Cities() []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, list := range c.CitiesByState {
		for _, city := range list {
			if _, ok := seen[city]; !ok {
				seen[city] = struct{}{}
				cities = append(cities, city)
			}
		}
	}
	sort.Strings(cities)
	return cities
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}

func contains(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}
