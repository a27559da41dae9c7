package content

import "github.com/nathoo/storyseed/types"

// Default returns the built-in content pack. Each call returns a fresh copy.
func Default() *Pack {
	return &Pack{
		Name: "default",

		Roles: []string{
			"courier", "archivist", "night-ferry pilot", "cartographer", "lamplighter", "understudy",
		},
		Destinations: []string{
			"the lighthouse at Vell", "the sunken observatory", "the last station on the line",
			"the orchard behind the quarantine wall", "the theatre that burned twice",
		},
		Genres: []string{
			"quiet mystery", "gothic drama", "folk thriller", "melancholy fable", "slow-burn intrigue",
		},
		Locations: []string{
			"a rain-slick platform", "the back room of a ferry office", "a chapel with no bell",
			"a kitchen lit by one candle", "the roof of a shuttered hotel", "a customs shed at the border",
		},
		TimesOfDay: []string{"dawn", "late morning", "dusk", "the small hours", "midnight"},
		Atmospheres: []string{
			"hushed", "electric", "uneasy", "tender", "brittle", "feverish",
		},
		Themes: []string{
			"loyalty", "memory", "debt", "forgiveness", "ambition", "belonging", "secrecy",
		},
		Conflicts: []string{
			"a promise nobody remembers making",
			"a letter that should never have been delivered",
			"a debt owed to someone who vanished",
			"a name missing from every record",
			"a door that opens only from the other side",
		},

		Sensory: []string{
			"The air smells of wet iron and cold tea.",
			"Somewhere below, water knocks against old wood.",
			"A lamp gutters, throwing every shadow a half-step late.",
			"{{ .World.TimeOfDay | title }} light leans through a cracked pane.",
			"Your breath fogs, though nobody else's seems to.",
			"Paper rustles in a room that should be empty.",
		},
		Hooks: []string{
			"Someone has been here before you, and recently.",
			"A timetable on the wall lists {{ .World.Destination }} twice.",
			"The way ahead is open, which feels like a mistake.",
			"A voice you almost recognize says your title: {{ .World.Role }}.",
			"Nobody mentions the {{ .World.Atmosphere }} silence, so you don't either.",
		},
		Endings: []string{
			"For a moment it feels as if the story could stop right here.",
			"Something final settles in the room, like dust after a door slams.",
			"You have the strange sense of a page being turned for you.",
		},
		Reveals: []string{
			"An earlier choice resurfaces: {{ .Choice }}",
			"What you did before finds you again: {{ .Choice }}",
			"The past catches up: {{ .Choice }}",
		},

		Narration: map[types.ChoiceType][]string{
			types.ChoiceMultiple: {
				"{{ .Name }} watches you decide, {{ .Mood }}, and says nothing until it is done.",
				"You choose, and {{ .Name }} lets out a breath that sounds {{ .Mood }}.",
				"In {{ .World.Location }}, {{ .Name }} turns the decision over like a coin. {{ .Name }} seems {{ .Mood }}.",
			},
			types.ChoiceGesture: {
				"{{ .Name }} goes still under the gesture, then softens. {{ .Name | title }} is {{ .Mood }}.",
				"It is a small movement, but {{ .Name }} answers it with one of their own, {{ .Mood }}.",
				"No words are needed. {{ .Name }} looks {{ .Mood }} and does not pull away.",
			},
			types.ChoiceTimed: {
				"You move before you can second-guess it. {{ .Name }} reacts a heartbeat later, {{ .Mood }}.",
				"The moment nearly passes. {{ .Name }} catches your eye, {{ .Mood }}, as you act.",
				"Everything happens at once, and {{ .Name }} is left {{ .Mood }} in its wake.",
			},
			types.ChoiceConditional: {
				"{{ .Name }} has been waiting for this. The answer comes {{ .Mood }} and unguarded.",
				"Because of everything before, {{ .Name }} listens. {{ .Name }} is {{ .Mood }} now.",
				"{{ .Name }} does not pretend to be surprised. {{ .Mood | title }}, they meet your gaze.",
			},
		},

		Choices: map[string][]string{
			KeyComply: {
				"Do as you're asked and carry on toward {{ .World.Destination }}.",
				"Accept the terms without argument.",
			},
			KeyResist: {
				"Refuse, and make it clear you are not just a {{ .World.Role }}.",
				"Push back and demand an explanation.",
			},
			KeyDefuse: {
				"Lower your voice and try to take the heat out of the room.",
				"Offer everyone a way to back down without losing face.",
			},
			KeyInvestigate: {
				"Look closer at what doesn't fit.",
				"Follow the detail nobody else noticed.",
			},
			KeyConfront: {
				"Say out loud what everyone is avoiding.",
				"Call {{ default \"someone\" .Name }} out on the inconsistency.",
			},
			KeyAlly: {
				"Stand with {{ .Name }} and make it obvious.",
				"Quietly back {{ .Name }} when it counts.",
			},
			KeyPress: {
				"Press on toward {{ .World.Destination }}.",
				"Keep moving before the moment closes.",
			},
			KeyObserve: {
				"Wait, watch, and say nothing yet.",
				"Hold back and observe for a while.",
			},
			KeyComfort: {
				"Rest a hand on {{ .Name }}'s shoulder.",
				"Step closer to {{ .Name }} without a word.",
			},
			KeyAcknowledge: {
				"Nod to {{ .Name }} in thanks.",
				"Meet {{ .Name }}'s eyes and smile.",
			},
			KeyConfide: {
				"Trust {{ .Name }} with the truth.",
				"Tell {{ .Name }} what you have been keeping back.",
			},
			KeyConfrontPast: {
				"Confront {{ .Name }} about what happened earlier.",
				"Ask {{ .Name }} directly about the thing left unsaid.",
			},
			KeyIntervene: {
				"Step in before {{ .Name }} does something irreversible.",
				"Act now, before {{ .Name }} notices.",
			},
			KeySeize: {
				"Seize the quiet moment while {{ .Name }} is distracted.",
				"Take the chance while it is still there.",
			},
		},

		Consequences: map[types.ConsequenceRule][]string{
			types.RuleFirstCompliance: {
				"Your compliance was noted by someone who keeps careful accounts.",
				"By going along, you let someone believe you can be relied on.",
			},
			types.RuleFirstDefiance: {
				"Your refusal travels ahead of you toward {{ .World.Destination }}.",
				"Word of your defiance spreads faster than you do.",
			},
			types.RuleGesture: {
				"{{ .Name }} will remember that gesture long after it is forgotten by you.",
				"Something shifted between you and {{ .Name }} that neither of you named.",
			},
			types.RuleConfrontation: {
				"You forced a reckoning, and {{ .Name }} will not let it rest.",
				"The confrontation leaves a mark on {{ .Name }} that is hard to miss.",
			},
		},

		Templates: []CharacterTemplate{
			{
				ID: "mara", Name: "Mara", Archetype: "the reluctant guide",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {60, 30}, TraitCourage: {40, 40}, TraitEmpathy: {55, 30},
					TraitCuriosity: {30, 30}, TraitVolatility: {20, 30},
				},
			},
			{
				ID: "ostrander", Name: "Ostrander", Archetype: "the polite creditor",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {20, 40}, TraitCourage: {50, 30}, TraitEmpathy: {15, 30},
					TraitCuriosity: {60, 30}, TraitVolatility: {30, 40},
				},
			},
			{
				ID: "june", Name: "June", Archetype: "the ferry captain's daughter",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {50, 40}, TraitCourage: {65, 30}, TraitEmpathy: {45, 40},
					TraitCuriosity: {70, 25}, TraitVolatility: {50, 40},
				},
			},
			{
				ID: "teodor", Name: "Teodor", Archetype: "the retired inspector",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {70, 20}, TraitCourage: {35, 30}, TraitEmpathy: {40, 30},
					TraitCuriosity: {80, 20}, TraitVolatility: {10, 20},
				},
			},
			{
				ID: "wren", Name: "Wren", Archetype: "the stranger with your handwriting",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {35, 50}, TraitCourage: {55, 40}, TraitEmpathy: {60, 30},
					TraitCuriosity: {50, 40}, TraitVolatility: {60, 35},
				},
			},
			{
				ID: "ilse", Name: "Ilse", Archetype: "the hotel's last resident",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {45, 30}, TraitCourage: {25, 30}, TraitEmpathy: {75, 20},
					TraitCuriosity: {40, 30}, TraitVolatility: {35, 30},
				},
			},
			{
				ID: "bastien", Name: "Bastien", Archetype: "the smuggler who keeps his word",
				Traits: map[string]TraitRange{
					TraitTrustworthiness: {55, 35}, TraitCourage: {70, 25}, TraitEmpathy: {30, 30},
					TraitCuriosity: {35, 30}, TraitVolatility: {45, 40},
				},
			},
		},
	}
}
