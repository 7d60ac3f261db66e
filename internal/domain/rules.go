package domain

// IntentRule binds one intent to the keywords that trigger it. Rules are
// evaluated in slice order and the first keyword hit wins.
type IntentRule struct {
	Intent   Intent
	Keywords []string
}

// RuleSet groups the language tables the text pipeline runs on. All entries
// are stored lowercase with accents stripped, the same form the normalizer
// produces.
type RuleSet struct {
	// IntentRules is the ordered keyword table for intent classification.
	IntentRules []IntentRule

	// Singulars maps irregular plural forms to their singular.
	Singulars map[string]string

	// Exclusions maps a qualifier term to the counter-terms that disqualify
	// a candidate product carrying them.
	Exclusions map[string][]string

	// StopWords are filler tokens ignored during entity extraction.
	StopWords map[string]bool
}

// DefaultRules returns the Spanish rule tables tuned for the hardware store
// catalog.
func DefaultRules() *RuleSet {
	return &RuleSet{
		IntentRules: []IntentRule{
			{
				Intent: IntentProductSearch,
				Keywords: []string{
					"tienes", "tienen", "hay", "venden", "vendes",
					"buscar", "busca", "busco", "necesito", "quiero",
					"me interesa", "estoy buscando",
				},
			},
			{
				Intent: IntentProductInfo,
				Keywords: []string{
					"stock", "precio", "cuanto cuesta", "cuanto vale",
					"cuantos quedan", "cuantas quedan", "disponible",
					"disponibilidad", "existencias", "en bodega",
				},
			},
			{
				Intent: IntentInstruction,
				Keywords: []string{
					"como instalar", "como reparar", "como arreglar",
					"como colocar", "como montar", "como pintar",
					"como se usa", "pasos para", "instrucciones",
				},
			},
			{
				Intent: IntentOfftopic,
				Keywords: []string{
					"quien es", "elon musk", "sam altman", "que hora",
					"quien invento", "capital de", "presidente de",
					"cuentame un chiste", "partido de futbol",
				},
			},
		},
		Singulars: map[string]string{
			"alicates":         "alicate",
			"andenes":          "anden",
			"atriles":          "atril",
			"barnices":         "barniz",
			"barriles":         "barril",
			"bastones":         "baston",
			"bidones":          "bidon",
			"cajones":          "cajon",
			"carriles":         "carril",
			"cinceles":         "cincel",
			"compresores":      "compresor",
			"condensadores":    "condensador",
			"destornilladores": "destornillador",
			"escalones":        "escalon",
			"extintores":       "extintor",
			"flexometros":      "flexometro",
			"imanes":           "iman",
			"interruptores":    "interruptor",
			"lapices":          "lapiz",
			"luces":            "luz",
			"matices":          "matiz",
			"medidores":        "medidor",
			"metales":          "metal",
			"motores":          "motor",
			"niveles":          "nivel",
			"paneles":          "panel",
			"pedestales":       "pedestal",
			"perfiles":         "perfil",
			"pistones":         "piston",
			"pitones":          "piton",
			"rieles":           "riel",
			"rodamientos":      "rodamiento",
			"sifones":          "sifon",
			"soldadores":       "soldador",
			"tablones":         "tablon",
			"taladros":         "taladro",
			"tapices":          "tapiz",
			"tapones":          "tapon",
			"tensores":         "tensor",
			"umbrales":         "umbral",
		},
		Exclusions: map[string][]string{
			"mate":       {"brillante", "esmalte", "satinado"},
			"brillante":  {"mate", "satinado"},
			"satinado":   {"mate", "brillante"},
			"esmalte":    {"latex", "mate"},
			"latex":      {"esmalte", "aceite"},
			"carretilla": {"cerradura", "candado"},
			"cerradura":  {"carretilla"},
			"clavo":      {"tornillo"},
			"tornillo":   {"clavo"},
			"taladro":    {"atornillador"},
			"brocha":     {"rodillo"},
			"rodillo":    {"brocha"},
			"cemento":    {"cal", "yeso"},
			"yeso":       {"cemento"},
		},
		StopWords: map[string]bool{
			"algun":   true,
			"alguna":  true,
			"aqui":    true,
			"busca":   true,
			"buscar":  true,
			"busco":   true,
			"como":    true,
			"cuanto":  true,
			"cuantos": true,
			"cuesta":  true,
			"dame":    true,
			"del":     true,
			"existe":  true,
			"favor":   true,
			"hay":     true,
			"hola":    true,
			"las":     true,
			"los":     true,
			"necesito": true,
			"para":    true,
			"por":     true,
			"precio":  true,
			"que":     true,
			"quiero":  true,
			"stock":   true,
			"tiene":   true,
			"tienen":  true,
			"tienes":  true,
			"una":     true,
			"unas":    true,
			"unos":    true,
			"vale":    true,
			"venden":  true,
			"vendes":  true,
			"ver":     true,
		},
	}
}
