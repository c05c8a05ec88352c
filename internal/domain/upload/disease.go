package upload

import (
	"math/rand"

	"silkscan/internal/classifier"
)

// DiseaseInfo pairs a disease name with an ordered list of preventive measures.
type DiseaseInfo struct {
	Name               string   `json:"name"`
	PreventiveMeasures []string `json:"preventiveMeasures"`
}

// diseaseProfiles is static configuration data loaded at process start,
// not a dynamic registry.
var diseaseProfiles = []DiseaseInfo{
	{
		Name: "Grasserie",
		PreventiveMeasures: []string{
			"Disinfect the rearing house and appliances before each rearing",
			"Rear larvae from disease-free layings only",
			"Remove and destroy infected larvae immediately",
			"Avoid overcrowding and maintain optimum temperature and humidity",
			"Feed quality mulberry leaves appropriate to the larval stage",
		},
	},
	{
		Name: "Flacherie",
		PreventiveMeasures: []string{
			"Never feed overmature, dirty or fermented mulberry leaves",
			"Keep rearing beds clean and change them regularly",
			"Avoid high temperature combined with high humidity in the rearing house",
			"Disinfect rearing trays with a recommended disinfectant",
			"Isolate weak or sluggish larvae from the healthy batch",
		},
	},
	{
		Name: "Muscardine",
		PreventiveMeasures: []string{
			"Dust the larval body and rearing bed with slaked lime during humid weather",
			"Keep the rearing house ventilated and reduce bed humidity",
			"Remove mummified larvae and burn them away from the rearing house",
			"Disinfect the rearing house with formalin after each crop",
		},
	},
	{
		Name: "Pebrine",
		PreventiveMeasures: []string{
			"Use only certified disease-free layings for rearing",
			"Conduct mother moth examination and reject infected batches",
			"Surface-disinfect eggs with formalin before incubation",
			"Destroy all infected larvae, litter and contaminated appliances",
		},
	},
}

// pickDiseaseInfo maps a diseased verdict to one of the fixed profiles,
// chosen uniformly at random; a healthy verdict yields nil.
//
// The random pick is a stand-in for an eventual multi-class disease
// classifier and is a known limitation of the current pipeline.
func pickDiseaseInfo(label string) *DiseaseInfo {
	if label != classifier.LabelDiseased {
		return nil
	}
	profile := diseaseProfiles[rand.Intn(len(diseaseProfiles))]
	measures := make([]string, len(profile.PreventiveMeasures))
	copy(measures, profile.PreventiveMeasures)
	return &DiseaseInfo{Name: profile.Name, PreventiveMeasures: measures}
}
