package robot

import "github.com/nerrad567/gray-logic-botvac/internal/capability"

// Operation names.
const (
	OpFindMe                = "find_me"
	OpGetInfo               = "get_info"
	OpGetDebugInfo          = "get_debug_info"
	OpGetState              = "get_state"
	OpDismissAlert          = "dismiss_alert"
	OpStartCleaning         = "start_cleaning"
	OpStartSpotCleaning     = "start_spot_cleaning"
	OpStopCleaning          = "stop_cleaning"
	OpPauseCleaning         = "pause_cleaning"
	OpResumeCleaning        = "resume_cleaning"
	OpReturnToBase          = "return_to_base"
	OpGetLocalStats         = "get_local_stats"
	OpGetManualCleaningInfo = "get_manual_cleaning_info"
	OpGetPreferences        = "get_preferences"
	OpGetSchedule           = "get_schedule"
	OpEnableSchedule        = "enable_schedule"
	OpDisableSchedule       = "disable_schedule"
)

// Commands sent regardless of capabilities.
const (
	cmdGetRobotInfo        = "getRobotInfo"
	cmdGetRobotState       = "getRobotState"
	cmdDismissCurrentAlert = "dismissCurrentAlert"
)

// Nucleo cleaning categories.
const (
	categoryHouse = 2
	categorySpot  = 3
)

// generalCleaning covers the control commands shared by house and spot cleaning.
var generalCleaning = capability.Product(
	[]string{capability.CapHouseCleaning, capability.CapSpotCleaning},
	[]string{capability.LevelBasic1, capability.LevelBasic2, capability.LevelMinimal2},
)

var scheduleLevels = capability.Product(
	[]string{capability.CapSchedule},
	[]string{capability.LevelBasic1, capability.LevelBasic2, capability.LevelMinimal1},
)

var (
	findMe = capability.NewRegistry[NoArgs, Command](OpFindMe).
		MustRegister(capability.CapFindMe, capability.LevelBasic1, simple("findMe"))

	getInfo = capability.NewRegistry[NoArgs, Command](OpGetInfo).
		MustRegisterShared(capability.Product(
			[]string{capability.CapGeneralInfo},
			[]string{capability.LevelBasic1, capability.LevelAdvanced1},
		), simple("getGeneralInfo"))

	startCleaning = capability.NewRegistry[CleaningOptions, Command](OpStartCleaning).
		MustRegister(capability.CapHouseCleaning, capability.LevelBasic1, startCleaningBasic1).
		MustRegister(capability.CapHouseCleaning, capability.LevelMinimal2, startCleaningMinimal2).
		MustRegister(capability.CapHouseCleaning, capability.LevelBasic2, startCleaningBasic2)

	startSpotCleaning = capability.NewRegistry[SpotCleaningOptions, Command](OpStartSpotCleaning).
		MustRegister(capability.CapSpotCleaning, capability.LevelBasic1, startSpotCleaningBasic1).
		MustRegister(capability.CapSpotCleaning, capability.LevelMicro2, startSpotCleaningMicro2).
		MustRegister(capability.CapSpotCleaning, capability.LevelMinimal2, startSpotCleaningMinimal2).
		MustRegister(capability.CapSpotCleaning, capability.LevelBasic2, startSpotCleaningBasic2)

	stopCleaning = capability.NewRegistry[NoArgs, Command](OpStopCleaning).
		MustRegisterShared(generalCleaning, simple("stopCleaning"))

	pauseCleaning = capability.NewRegistry[NoArgs, Command](OpPauseCleaning).
		MustRegisterShared(generalCleaning, simple("pauseCleaning"))

	resumeCleaning = capability.NewRegistry[NoArgs, Command](OpResumeCleaning).
		MustRegisterShared(generalCleaning, simple("resumeCleaning"))

	returnToBase = capability.NewRegistry[NoArgs, Command](OpReturnToBase).
		MustRegisterShared(generalCleaning, simple("sendToBase"))

	getLocalStats = capability.NewRegistry[NoArgs, Command](OpGetLocalStats).
		MustRegister(capability.CapLocalStats, capability.LevelAdvanced1, simple("getLocalStats"))

	getManualCleaningInfo = capability.NewRegistry[NoArgs, Command](OpGetManualCleaningInfo).
		MustRegisterShared(capability.Product(
			[]string{capability.CapManualCleaning},
			[]string{capability.LevelBasic1, capability.LevelAdvanced1},
		), simple("getRobotManualCleaningInfo"))

	getPreferences = capability.NewRegistry[NoArgs, Command](OpGetPreferences).
		MustRegisterShared(capability.Product(
			[]string{capability.CapPreferences},
			[]string{capability.LevelBasic1, capability.LevelAdvanced1},
		), simple("getPreferences"))

	getSchedule = capability.NewRegistry[NoArgs, Command](OpGetSchedule).
		MustRegisterShared(scheduleLevels, simple("getSchedule"))

	enableSchedule = capability.NewRegistry[NoArgs, Command](OpEnableSchedule).
		MustRegisterShared(scheduleLevels, simple("enableSchedule"))

	disableSchedule = capability.NewRegistry[NoArgs, Command](OpDisableSchedule).
		MustRegisterShared(scheduleLevels, simple("disableSchedule"))
)

// simple returns a builder for a command without parameters.
func simple(name string) capability.Func[NoArgs, Command] {
	return func(NoArgs) (Command, error) {
		return Command{Name: name}, nil
	}
}

// ecoMode maps the eco flag to the Nucleo "mode" value (1 eco, 2 turbo).
func ecoMode(eco bool) int {
	if eco {
		return 1
	}
	return 2
}

// navigationMode maps the extra-care flag (1 normal, 2 extra care).
func navigationMode(extraCare bool) int {
	if extraCare {
		return 2
	}
	return 1
}

// frequency maps the double-pass flag to the Nucleo "modifier" value.
func frequency(double bool) int {
	if double {
		return 2
	}
	return 1
}

func startCleaningBasic1(o CleaningOptions) (Command, error) {
	return Command{Name: "startCleaning", Params: map[string]any{
		"category": categoryHouse,
		"mode":     ecoMode(o.EcoMode),
		"modifier": 1,
	}}, nil
}

func startCleaningMinimal2(o CleaningOptions) (Command, error) {
	return Command{Name: "startCleaning", Params: map[string]any{
		"category":       categoryHouse,
		"navigationMode": navigationMode(o.ExtraCare),
	}}, nil
}

func startCleaningBasic2(o CleaningOptions) (Command, error) {
	return Command{Name: "startCleaning", Params: map[string]any{
		"category":       categoryHouse,
		"mode":           ecoMode(o.EcoMode),
		"modifier":       1,
		"navigationMode": navigationMode(o.ExtraCare),
	}}, nil
}

func startSpotCleaningBasic1(o SpotCleaningOptions) (Command, error) {
	width, height, err := o.size()
	if err != nil {
		return Command{}, err
	}
	return Command{Name: "startCleaning", Params: map[string]any{
		"category":   categorySpot,
		"mode":       ecoMode(o.EcoMode),
		"modifier":   frequency(o.DoubleFrequency),
		"spotWidth":  width,
		"spotHeight": height,
	}}, nil
}

func startSpotCleaningMicro2(o SpotCleaningOptions) (Command, error) {
	return Command{Name: "startCleaning", Params: map[string]any{
		"category":       categorySpot,
		"navigationMode": navigationMode(o.ExtraCare),
	}}, nil
}

func startSpotCleaningMinimal2(o SpotCleaningOptions) (Command, error) {
	return Command{Name: "startCleaning", Params: map[string]any{
		"category":       categorySpot,
		"modifier":       frequency(o.DoubleFrequency),
		"navigationMode": navigationMode(o.ExtraCare),
	}}, nil
}

func startSpotCleaningBasic2(o SpotCleaningOptions) (Command, error) {
	width, height, err := o.size()
	if err != nil {
		return Command{}, err
	}
	return Command{Name: "startCleaning", Params: map[string]any{
		"category":       categorySpot,
		"mode":           ecoMode(o.EcoMode),
		"modifier":       frequency(o.DoubleFrequency),
		"navigationMode": navigationMode(o.ExtraCare),
		"spotWidth":      width,
		"spotHeight":     height,
	}}, nil
}
