package mid

// parameterNames resolves a Data Field's 5-digit parameterID to its
// human-readable name. Unknown codes resolve to "" and are not an error;
// the numeric code is always preserved on the record.
var parameterNames = map[string]string{
	"00001": "VIN number",
	"00002": "job ID",
	"00012": "torque final target",
	"00013": "torque min limit",
	"00014": "torque max limit",
	"00022": "angle final target",
	"00023": "angle min limit",
	"00024": "angle max limit",
	"02213": "trace curve reciprocal coefficient",
	"02214": "trace curve direct coefficient",
}

// unitNames resolves a Data/Resolution Field's 3-digit unit code to its
// human-readable name.
var unitNames = map[int]string{
	1:   "Nm",
	2:   "lbf-in",
	3:   "lbf-ft",
	10:  "degrees",
	200: "s",
	201: "min",
	202: "ms",
	203: "hr",
}

// timeUnitMultiplier maps a Trace Sample's unit code to the number of
// milliseconds it represents, for a Trace Sample record.
// Unit codes outside this table carry a multiplier of 1.
func timeUnitMultiplier(unit int) int64 {
	switch unit {
	case 200:
		return 1000
	case 201:
		return 60000
	case 202:
		return 1
	case 203:
		return 3600000
	default:
		return 1
	}
}

// ParameterName returns the human-readable name for a Data Field
// parameterID, or "" if the code is not in the table.
func ParameterName(parameterID string) string { return parameterNames[parameterID] }

// UnitName returns the human-readable name for a unit code, or "" if the
// code is not in the table.
func UnitName(unit int) string { return unitNames[unit] }
