package config

// Default returns the settings the mod data has always been generated with.
func Default() Config {
	return Config{
		ElementsPath: "elements.csv",
		OutputPath:   "output.lua",
		RedoSheet:    "sources (redo)",
		UncraftSheet: "sources (uncraft)",
		MaxElements:  6,
		UsageTop:     5,
		TimeDivisor:  3,
		ExtraElements: map[string]string{
			"Ab": "Abyssalium",
			"?":  "Unknown",
			"Ub": "Unobtanium",
		},
		ExcludedElements: DefaultExcluded(),
		MixCount:         60,
	}
}

// DefaultExcluded lists elements the mod does not provide.
func DefaultExcluded() []string {
	return []string{
		"At",
		"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
		"Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
		"Bk", "Fm", "Md", "No", "Lr",

		// no recipes for these
		"Ir", "Ac", "Fr", "Tc", "Pa",
	}
}
