package model

// PenaltyCode is the closed set of confidence deductions
type PenaltyCode string

const (
	PenaltyNoSources          PenaltyCode = "NO_SOURCES"
	PenaltyLowSimilarity      PenaltyCode = "LOW_SIMILARITY"
	PenaltyStaleData          PenaltyCode = "STALE_DATA"
	PenaltyConflictingSources PenaltyCode = "CONFLICTING_SOURCES"
	PenaltyMissingFields      PenaltyCode = "MISSING_FIELDS"
	PenaltyIntentForceHandoff PenaltyCode = "INTENT_FORCE_HANDOFF"
)

// Penalty is one applied deduction, copied from the static table
type Penalty struct {
	Code    PenaltyCode `json:"code" bson:"code"`
	Message string      `json:"message" bson:"message"`
	Value   float64     `json:"value" bson:"value"`
}

type penaltyDef struct {
	value         float64
	forceEscalate bool
	message       string
}

// The deduction values and escalation flags are fixed per code, never
// per instance. Messages are operator-facing and localized.
var penaltyTable = map[PenaltyCode]penaltyDef{
	PenaltyNoSources: {
		value:         0.40,
		forceEscalate: true,
		message:       "Не найдено подходящих источников для ответа",
	},
	PenaltyLowSimilarity: {
		value:         0.25,
		forceEscalate: false,
		message:       "Низкое сходство вопроса с найденными источниками",
	},
	PenaltyStaleData: {
		value:         0.30,
		forceEscalate: true,
		message:       "Данные о ценах могли устареть",
	},
	PenaltyConflictingSources: {
		value:         0.35,
		forceEscalate: true,
		message:       "Источники содержат противоречивые цены",
	},
	PenaltyMissingFields: {
		value:         0.10,
		forceEscalate: false,
		message:       "В карточке товара не хватает обязательных полей",
	},
	PenaltyIntentForceHandoff: {
		value:         0,
		forceEscalate: true,
		message:       "Тема обращения требует передачи оператору",
	},
}

// NewPenalty builds the applied penalty for a code from the static table
func NewPenalty(code PenaltyCode) Penalty {
	def := penaltyTable[code]
	return Penalty{
		Code:    code,
		Message: def.message,
		Value:   def.value,
	}
}

// ForceEscalate reports whether applying this code forces escalation
func (c PenaltyCode) ForceEscalate() bool {
	return penaltyTable[c].forceEscalate
}

// Message returns the operator-facing text for this code
func (c PenaltyCode) Message() string {
	return penaltyTable[c].message
}
