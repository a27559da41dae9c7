// Package types defines the shared data structures for the storyseed engine.
// This package contains only type definitions and constants; no logic.
package types

// PlayerID is the reserved relationship key for the player.
const PlayerID = "player"

// TerminalMarker closes the final beat of an ended story.
const TerminalMarker = "*** THE END *** Type /restart to begin a new story."

// ChoiceType classifies how a choice is presented to the player.
type ChoiceType string

const (
	ChoiceBinary      ChoiceType = "binary"
	ChoiceMultiple    ChoiceType = "multiple"
	ChoiceGesture     ChoiceType = "gesture"
	ChoiceTimed       ChoiceType = "timed"
	ChoiceConditional ChoiceType = "conditional"
)

// ChoiceTypes lists every choice type in presentation order.
var ChoiceTypes = []ChoiceType{ChoiceBinary, ChoiceMultiple, ChoiceGesture, ChoiceTimed, ChoiceConditional}

// Tone is the emotional register of a choice.
type Tone string

const (
	ToneCompliant       Tone = "compliant"
	ToneDefiant         Tone = "defiant"
	ToneCautious        Tone = "cautious"
	ToneEmpathetic      Tone = "empathetic"
	ToneCurious         Tone = "curious"
	ToneConfrontational Tone = "confrontational"
)

// Difficulty grades how risky a choice is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Phase is a story arc phase. Phases only move forward.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseInciting   Phase = "inciting"
	PhaseRising     Phase = "rising"
	PhaseClimax     Phase = "climax"
	PhaseFalling    Phase = "falling"
	PhaseResolution Phase = "resolution"
)

// Phases lists the arc phases in order.
var Phases = []Phase{PhaseSetup, PhaseInciting, PhaseRising, PhaseClimax, PhaseFalling, PhaseResolution}

// Pacing describes how quickly the story is moving.
type Pacing string

const (
	PacingSlow   Pacing = "slow"
	PacingMedium Pacing = "medium"
	PacingFast   Pacing = "fast"
)

// Horizon is how far into the story a consequence reaches.
type Horizon string

const (
	HorizonShort Horizon = "short"
	HorizonLong  Horizon = "long"
)

// Severity grades a consequence.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// ConsequenceRule names the trigger rule that produced a consequence.
type ConsequenceRule string

const (
	RuleFirstCompliance ConsequenceRule = "first_compliance"
	RuleFirstDefiance   ConsequenceRule = "first_defiance"
	RuleGesture         ConsequenceRule = "gesture"
	RuleConfrontation   ConsequenceRule = "confrontation"
)

// Mood labels.
const (
	MoodNeutral   = "neutral"
	MoodPleased   = "pleased"
	MoodIrritated = "irritated"
	MoodIntrigued = "intrigued"
)

// World is the generated setting plus its narrative pressure scalars.
type World struct {
	Seed        string  `json:"seed"`
	Role        string  `json:"role"`
	Destination string  `json:"destination"`
	Genre       string  `json:"genre"`
	Continuity  int     `json:"continuity"` // [0,6]
	Foreshadow  int     `json:"foreshadow"` // >= 0
	Tension     float64 `json:"tension"`    // [0,1]
	Mystery     float64 `json:"mystery"`    // [0,1]
	Location    string  `json:"location"`
	TimeOfDay   string  `json:"time_of_day"`
	Atmosphere  string  `json:"atmosphere"`
}

// WorldDelta is a bounded change to the world scalars.
type WorldDelta struct {
	Tension    float64 `json:"tension,omitempty"`
	Mystery    float64 `json:"mystery,omitempty"`
	Continuity int     `json:"continuity,omitempty"`
	Foreshadow int     `json:"foreshadow,omitempty"`
}

// Mood is a character's dominant feeling.
type Mood struct {
	Label      string   `json:"label"`
	Intensity  float64  `json:"intensity"` // [0,1]
	Influences []string `json:"influences"`
}

// Memory is something a character remembers about the story.
type Memory struct {
	ID              string   `json:"id"`
	Content         string   `json:"content"`
	EmotionalWeight float64  `json:"emotional_weight"` // [-1,1]
	Importance      float64  `json:"importance"`       // [0,1]
	Turn            int      `json:"turn"`
	Related         []string `json:"related"`
}

// Relationship is how one participant regards another.
type Relationship struct {
	Strength  float64 `json:"strength"`  // [0,100]
	Trust     float64 `json:"trust"`     // [0,100]
	Affection float64 `json:"affection"` // [-100,100]
}

// Character is a persistent member of the cast.
type Character struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Archetype     string                  `json:"archetype"`
	Traits        map[string]float64      `json:"traits"` // each [0,100]
	Mood          Mood                    `json:"mood"`
	Memories      []Memory                `json:"memories"`
	Relationships map[string]Relationship `json:"relationships"`
	Active        bool                    `json:"active"`
}

// ConditionSubject is what a condition inspects.
type ConditionSubject string

const (
	SubjectMood         ConditionSubject = "mood"
	SubjectRelationship ConditionSubject = "relationship"
	SubjectConsequence  ConditionSubject = "consequence"
	SubjectWorld        ConditionSubject = "world"
	SubjectArc          ConditionSubject = "arc"
	SubjectHistory      ConditionSubject = "history"
)

// ConditionOp compares the inspected value with the condition operand.
type ConditionOp string

const (
	OpEquals   ConditionOp = "equals"
	OpGreater  ConditionOp = "greater"
	OpLess     ConditionOp = "less"
	OpContains ConditionOp = "contains"
)

// Condition is a predicate over the session, used for choice availability
// and consequence reveal.
type Condition struct {
	Subject ConditionSubject `json:"subject"`
	Target  string           `json:"target,omitempty"` // character id when relevant
	Field   string           `json:"field"`
	Op      ConditionOp      `json:"op"`
	Text    string           `json:"text,omitempty"`
	Number  float64          `json:"number,omitempty"`
}

// Consequence is a state effect attributed to a past choice.
type Consequence struct {
	ID              string          `json:"id"`
	ChoiceID        string          `json:"choice_id"`
	Rule            ConsequenceRule `json:"rule"`
	Description     string          `json:"description"`
	Horizon         Horizon         `json:"horizon"`
	Severity        Severity        `json:"severity"`
	Affected        []string        `json:"affected"`
	Delta           WorldDelta      `json:"delta"`
	Revealed        bool            `json:"revealed"`
	RevealCondition *Condition      `json:"reveal_condition,omitempty"` // nil reveals at creation
	Turn            int             `json:"turn"`
}

// StoryArc is the pacing state machine.
type StoryArc struct {
	Phase           Phase    `json:"phase"`
	Tension         float64  `json:"tension"` // [0,100]
	Themes          []string `json:"themes"`  // sorted, unique
	CentralConflict string   `json:"central_conflict"`
	Completion      float64  `json:"completion"` // [0,100]
	Pacing          Pacing   `json:"pacing"`
}

// Reaction is the predicted effect of a choice on one character.
type Reaction struct {
	MoodChange         float64 `json:"mood_change"`
	RelationshipImpact float64 `json:"relationship_impact"`
}

// Choice is one option offered to the player for the current turn.
type Choice struct {
	ID         string              `json:"id"`
	Key        string              `json:"key"`
	Text       string              `json:"text"`
	Type       ChoiceType          `json:"type"`
	Difficulty Difficulty          `json:"difficulty"`
	Tone       Tone                `json:"tone"`
	Focus      string              `json:"focus,omitempty"` // character the choice is about
	Reactions  map[string]Reaction `json:"reactions"`
	Conditions []Condition         `json:"conditions,omitempty"`
	Repeatable bool                `json:"repeatable"`
	TimeLimit  int                 `json:"time_limit,omitempty"` // seconds, timed choices only
}

// HistoryEntry is one resolved beat.
type HistoryEntry struct {
	Text     string `json:"text"`
	ChoiceID string `json:"choice_id"`
	Turn     int    `json:"turn"`
}

// RNGState is the persisted position of a session's generator.
type RNGState struct {
	State uint32 `json:"state"`
	Draws int64  `json:"draws"`
}

// Session is the aggregate root of one story.
type Session struct {
	ID             string         `json:"id"`
	Seed           string         `json:"seed"`
	RNG            RNGState       `json:"rng"`
	World          World          `json:"world"`
	Characters     []Character    `json:"characters"`
	Arc            StoryArc       `json:"arc"`
	Consequences   []Consequence  `json:"consequences"`
	History        []HistoryEntry `json:"history"`
	ChoiceCount    int            `json:"choice_count"`
	CompletionRate float64        `json:"completion_rate"`
	Ended          bool           `json:"ended"`
}

// EffectKind tags an Effect.
type EffectKind string

const (
	EffectMood         EffectKind = "mood"
	EffectMemory       EffectKind = "memory"
	EffectRelationship EffectKind = "relationship"
	EffectWorld        EffectKind = "world"
	EffectConsequence  EffectKind = "consequence"
	EffectReveal       EffectKind = "reveal"
	EffectTheme        EffectKind = "theme"
)

// Effect is a single atomic state mutation instruction. Only the fields
// relevant to Kind are set.
type Effect struct {
	Kind        EffectKind
	Character   string
	Other       string
	Delta       float64
	Intent      string
	Memory      *Memory
	World       WorldDelta
	Consequence *Consequence
	Ref         string // consequence id, for reveal
	Theme       string
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Event types.
const (
	EventMoodChanged         = "mood_changed"
	EventMemoryAdded         = "memory_added"
	EventRelationshipChanged = "relationship_changed"
	EventWorldChanged        = "world_changed"
	EventConsequenceCreated  = "consequence_created"
	EventConsequenceRevealed = "consequence_revealed"
	EventThemeAdded          = "theme_added"
	EventPhaseChanged        = "phase_changed"
	EventStoryEnded          = "story_ended"
)
