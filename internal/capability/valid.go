package capability

// Capability names known to the Nucleo robot API.
const (
	CapFindMe         = "findMe"
	CapGeneralInfo    = "generalInfo"
	CapHouseCleaning  = "houseCleaning"
	CapLocalStats     = "localStats"
	CapManualCleaning = "manualCleaning"
	CapMaps           = "maps"
	CapPreferences    = "preferences"
	CapSchedule       = "schedule"
	CapSpotCleaning   = "spotCleaning"
)

// Service levels seen across robot firmware.
const (
	LevelBasic1    = "basic-1"
	LevelBasic2    = "basic-2"
	LevelMinimal1  = "minimal-1"
	LevelMinimal2  = "minimal-2"
	LevelMicro2    = "micro-2"
	LevelAdvanced1 = "advanced-1"
)

// ValidLevels lists the levels each capability is documented to use.
//
// This is reference data. Registrations are expected to stay inside it but
// Resolve never consults it.
var ValidLevels = map[string][]string{
	CapFindMe:         {LevelBasic1},
	CapGeneralInfo:    {LevelBasic1, LevelAdvanced1},
	CapHouseCleaning:  {LevelBasic1, LevelMinimal2, LevelBasic2},
	CapLocalStats:     {LevelAdvanced1},
	CapManualCleaning: {LevelBasic1, LevelAdvanced1},
	CapMaps:           {LevelBasic1},
	CapPreferences:    {LevelBasic1, LevelAdvanced1},
	CapSchedule:       {LevelBasic1, LevelBasic2, LevelMinimal1},
	CapSpotCleaning:   {LevelBasic1, LevelMicro2, LevelMinimal2, LevelBasic2},
}

// IsValid reports whether the pair appears in ValidLevels.
func IsValid(capability, level string) bool {
	for _, l := range ValidLevels[capability] {
		if l == level {
			return true
		}
	}
	return false
}

// ValidKeys returns every pair in ValidLevels, sorted.
func ValidKeys() []Key {
	var keys []Key
	for c, levels := range ValidLevels {
		for _, l := range levels {
			keys = append(keys, K(c, l))
		}
	}
	sortKeys(keys)
	return keys
}

// UnknownKeys returns the declared pairs that are not in ValidLevels.
// Used to warn about unexpected firmware, never to reject it.
func UnknownKeys(d Declaration) []Key {
	var unknown []Key
	for _, k := range d.Keys() {
		if !IsValid(k.Capability, k.Level) {
			unknown = append(unknown, k)
		}
	}
	return unknown
}
