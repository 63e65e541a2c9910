package material

// Default returns the built-in library of MIL-HDBK-5 style coefficients
// for N = 10^(a - b*log(S_eq + c)), S_eq = S_max*(1-R)^d. Condition names
// read "Kt, product form, grain direction".
func Default() *Library {
	return FromMap(map[string]Conditions{
		"2014-T6 Aluminium": {
			"Unnotched, Wrought, Longitudinal":         NewEntry(21.49, 9.44, 0, 0.67),
			"1.6, Bar, Longitudinal":                   NewEntry(10.56, 4.02, 20.2, 0.55),
			"2.4, Bar, Longitudinal":                   NewEntry(10.59, 4.36, 11.7, 0.52),
			"3.4, Rolled & Extruded Bar, Longitudinal": NewEntry(8.35, 3.10, 10.6, 0.52),
			"2.4, Hand forging, Longi. & Transverse":   NewEntry(12.4, 5.95, 0, 0),
		},
		"2024-T3 Aluminium": {
			"Unnotched, Sheet, Longitudinal": NewEntry(11.1, 3.97, 15.8, 0.56),
			"1.5, Sheet, Longitudinal":       NewEntry(7.5, 2.13, 23.7, 0.66),
			"2.0, Sheet, Longitudinal":       NewEntry(9.2, 3.33, 12.3, 0.68),
			"4.0, Sheet, Longitudinal":       NewEntry(8.3, 3.30, 8.5, 0.66),
			"5.0, Sheet, Longitudinal":       NewEntry(8.9, 3.73, 3.9, 0.56),
		},
		"2024-T4 Aluminium": {
			"Unnotched, Wrought, Longitudinal": NewEntry(20.83, 9.09, 0, 0.52),
			"1.6 , Bar, Longitudinal":          NewEntry(12.25, 5.16, 18.7, 0.57),
			"2.4, Bar, Longitudinal":           NewEntry(14.33, 6.35, 3.2, 0.48),
			"3.4, Wrought, Longitudinal":       NewEntry(8.18, 2.76, 11.6, 0.52),
		},
		"2024-T42 Aluminium": {
			NoDataCondition: {},
		},
		"7075-T6 Aluminium": {
			"Unnotched, Various forms, Longitudinal": NewEntry(18.22, 7.77, 10.15, 0.62),
			"1.6, Rolled bar, Longitudinal":          NewEntry(8.26, 2.62, 15.3, 0.525),
			"3.4, Rolled bar, Longitudinal":          NewEntry(9.19, 3.646, 5.36, 0.386),
			"Unnotched, Sheet, Longitudinal":         NewEntry(14.86, 5.80, 0, 0.49),
			"1.5, Sheet, Longitudinal":               NewEntry(9.54, 3.52, 18.7, 0.49),
			"2.0, Sheet, Longitudinal":               NewEntry(7.50, 2.46, 18.6, 0.54),
			"4.0, Sheet, Longitudinal":               NewEntry(10.2, 4.63, 5.3, 0.51),
			"5.0, Sheet, Longitudinal":               NewEntry(7.51, 2.92, 6.7, 0.58),
		},
		"7075-T73 Aluminium": {
			NoDataCondition: {},
		},
		"7075-T7351 Aluminium": {
			NoDataCondition: {},
		},
		"AISI 4130 Steel, Normalized": {
			"Unnotched, Sheet, Longitudinal": NewEntry(9.65, 2.85, 61.3, 0.41),
			"1.5, Sheet, Longitudinal":       NewEntry(7.94, 2.01, 61.3, 0.88),
			"2.0, Sheet, Longitudinal":       NewEntry(17.1, 6.49, 0, 0.86),
			"4.0, Sheet, Longitudinal":       NewEntry(12.6, 4.69, 0, 0.63),
			"5.0, Sheet, Longitudinal":       NewEntry(12.0, 4.57, 0, 0.56),
		},
		"AISI 4130 Steel, Ftu = 180 ksi": {
			"Unnotched, Sheet, Longitudinal": NewEntry(20.3, 7.31, 0, 0.49),
			"2.0, Sheet, Longitudinal":       NewEntry(8.87, 2.81, 41.5, 0.46),
			"4.0, Sheet, Longitudinal":       NewEntry(12.4, 4.45, 0, 0.60),
		},
	})
}
