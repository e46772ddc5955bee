package domain

import "strings"

// Provinces are the 34 administrative regions shipments are routed between.
var Provinces = []string{
	"Badakhshan", "Badghis", "Baghlan", "Balkh", "Bamyan", "Daykundi",
	"Farah", "Faryab", "Ghazni", "Ghor", "Helmand", "Herat",
	"Jowzjan", "Kabul", "Kandahar", "Kapisa", "Khost", "Kunar",
	"Kunduz", "Laghman", "Logar", "Nangarhar", "Nimroz", "Nuristan",
	"Paktia", "Paktika", "Panjshir", "Parwan", "Samangan", "Sar-e Pol",
	"Takhar", "Uruzgan", "Wardak", "Zabul",
}

var provinceSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Provinces))
	for _, p := range Provinces {
		set[p] = struct{}{}
	}
	return set
}()

// IsProvince reports whether name is exactly one of the known provinces.
func IsProvince(name string) bool {
	_, ok := provinceSet[strings.TrimSpace(name)]
	return ok
}
