// Package weapons maps internal weapon codes to display names, categories
// and engagement-range heuristics.
package weapons

import (
	"strings"
	"unicode"

	"github.com/pable/go-pubg-coach/internal/model"
)

// canonical maps internal damage-causer codes to display names.
var canonical = map[string]string{
	// Assault rifles
	"WeapHK416_C":        "M416",
	"WeapAK47_C":         "AKM",
	"WeapSCAR-L_C":       "SCAR-L",
	"WeapM16A4_C":        "M16A4",
	"WeapBerylM762_C":    "Beryl M762",
	"WeapG36C_C":         "G36C",
	"WeapQBZ95_C":        "QBZ95",
	"WeapGroza_C":        "Groza",
	"WeapAUG_C":          "AUG A3",
	"WeapACE32_C":        "ACE32",
	"WeapK2_C":           "K2",
	"WeapFamasG2_C":      "FAMAS",
	"WeapMk47Mutant_C":   "Mk47 Mutant",
	"WeapDuncansHK416_C": "M416",
	// SMGs
	"WeapUMP_C":       "UMP45",
	"WeapVector_C":    "Vector",
	"WeapUZI_C":       "Micro UZI",
	"WeapThompson_C":  "Tommy Gun",
	"WeapBizonPP19_C": "PP-19 Bizon",
	"WeapMP5K_C":      "MP5K",
	"WeapMP9_C":       "MP9",
	"WeapP90_C":       "P90",
	"WeapJS9_C":       "JS9",
	// Sniper rifles
	"WeapKar98k_C":       "Kar98k",
	"WeapM24_C":          "M24",
	"WeapAWM_C":          "AWM",
	"WeapWin94_C":        "Win94",
	"WeapMosinNagant_C":  "Mosin Nagant",
	"WeapL6_C":           "Lynx AMR",
	"WeapJuliesKar98k_C": "Kar98k",
	// Designated marksman rifles
	"WeapMini14_C":   "Mini 14",
	"WeapSKS_C":      "SKS",
	"WeapFNFal_C":    "SLR",
	"WeapQBU88_C":    "QBU",
	"WeapMk14_C":     "Mk14 EBR",
	"WeapVSS_C":      "VSS",
	"WeapMk12_C":     "Mk12",
	"WeapDragunov_C": "Dragunov",
	// LMGs
	"WeapDP28_C": "DP-28",
	"WeapM249_C": "M249",
	"WeapMG3_C":  "MG3",
	// Shotguns
	"WeapSaiga12_C":    "S12K",
	"WeapBerreta686_C": "S686",
	"WeapWinchester_C": "S1897",
	"WeapDP12_C":       "DBS",
	"WeapSawnoff_C":    "Sawed-off",
	"WeapOriginS12_C":  "O12",
	// Pistols
	"WeapM9_C":           "P92",
	"WeapM1911_C":        "P1911",
	"WeapNagantM1895_C":  "R1895",
	"WeapG18_C":          "P18C",
	"WeapRhino_C":        "R45",
	"WeapDesertEagle_C":  "Deagle",
	"WeapVz61Skorpion_C": "Skorpion",
	// Melee and throwables
	"WeapPan_C":                    "Pan",
	"WeapMachete_C":                "Machete",
	"WeapCrowbar_C":                "Crowbar",
	"WeapSickle_C":                 "Sickle",
	"WeapCrossbow_1_C":             "Crossbow",
	"ProjGrenade_C":                "Frag Grenade",
	"ProjMolotov_C":                "Molotov",
	"PanzerFaust100M_Projectile_C": "Panzerfaust",
	"PlayerMale_A_C":               "Punch",
	"PlayerFemale_A_C":             "Punch",
}

// Known code prefixes and suffix stripped by the fallback prettifier.
var (
	codePrefixes = []string{"Item_Weapon_", "Weap", "Proj"}
	codeSuffix   = "_C"
)

// Name returns the display name for a weapon code. Unknown codes are
// prettified by stripping the known prefix and suffix and splitting at
// camel-case boundaries; an empty code yields model.UnknownWeapon.
func Name(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.UnknownWeapon
	}
	if n, ok := canonical[code]; ok {
		return n
	}
	// Item ids ("Item_Weapon_HK416_C") share the damage-causer body.
	if strings.HasPrefix(code, "Item_Weapon_") {
		if n, ok := canonical["Weap"+strings.TrimPrefix(code, "Item_Weapon_")]; ok {
			return n
		}
	}
	return prettify(code)
}

func prettify(code string) string {
	s := code
	for _, p := range codePrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimPrefix(s, p)
			break
		}
	}
	s = strings.TrimSuffix(s, codeSuffix)
	s = strings.ReplaceAll(s, "_", " ")

	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" {
		return model.UnknownWeapon
	}
	return out
}

// categoryOrder fixes the order in which categories are tried, so that a
// name contained in several lists resolves the same way every time.
var categoryOrder = []model.WeaponCategory{
	model.CategoryLMG,
	model.CategorySR,
	model.CategoryDMR,
	model.CategorySMG,
	model.CategoryShotgun,
	model.CategoryPistol,
	model.CategoryAR,
}

var categoryNames = map[model.WeaponCategory][]string{
	model.CategorySMG:     {"UMP45", "Vector", "Micro UZI", "Tommy Gun", "PP-19 Bizon", "MP5K", "MP9", "P90", "JS9"},
	model.CategoryAR:      {"M416", "AKM", "SCAR-L", "M16A4", "Beryl M762", "G36C", "QBZ95", "Groza", "AUG A3", "ACE32", "K2", "FAMAS", "Mk47 Mutant"},
	model.CategorySR:      {"Kar98k", "M24", "AWM", "Win94", "Mosin Nagant", "Lynx AMR"},
	model.CategoryDMR:     {"Mini 14", "SKS", "SLR", "QBU", "Mk14 EBR", "VSS", "Mk12", "Dragunov"},
	model.CategoryLMG:     {"DP-28", "M249", "MG3"},
	model.CategoryShotgun: {"S12K", "S686", "S1897", "DBS", "Sawed-off", "O12"},
	model.CategoryPistol:  {"P92", "P1911", "R1895", "P18C", "R45", "Deagle", "Skorpion"},
}

// Category classifies a display name. Exact list membership wins; otherwise
// the first list with a member contained in the name is used. Anything
// unmatched is treated as an AR.
func Category(name string) model.WeaponCategory {
	for _, c := range categoryOrder {
		for _, n := range categoryNames[c] {
			if n == name {
				return c
			}
		}
	}
	for _, c := range categoryOrder {
		for _, n := range categoryNames[c] {
			if strings.Contains(name, n) {
				return c
			}
		}
	}
	return model.CategoryAR
}

// Range is an engagement-distance envelope in metres.
type Range struct {
	Min, Max, Optimal float64
}

var optimalRanges = map[model.WeaponCategory]Range{
	model.CategorySMG:     {Min: 0, Max: 50, Optimal: 20},
	model.CategoryAR:      {Min: 10, Max: 150, Optimal: 60},
	model.CategoryDMR:     {Min: 50, Max: 400, Optimal: 200},
	model.CategorySR:      {Min: 100, Max: 600, Optimal: 300},
	model.CategoryLMG:     {Min: 20, Max: 200, Optimal: 80},
	model.CategoryShotgun: {Min: 0, Max: 20, Optimal: 8},
	model.CategoryPistol:  {Min: 0, Max: 30, Optimal: 10},
}

// OptimalRange returns the range envelope for a category (AR if unknown).
func OptimalRange(c model.WeaponCategory) Range {
	if r, ok := optimalRanges[c]; ok {
		return r
	}
	return optimalRanges[model.CategoryAR]
}

// Unfavorable reports whether a kill distance (metres) falls outside the
// tolerated band [0.5*Min, 1.5*Max] for the category.
func Unfavorable(c model.WeaponCategory, distance float64) bool {
	r := OptimalRange(c)
	return distance < 0.5*r.Min || distance > 1.5*r.Max
}
