package catalog

import "github.com/progress-tracker/survey-backend/pkg/surveyengine"

// DefaultQuestions is the bundled question set used when the upstream catalog
// is unreachable and nothing was imported before. It keeps the survey usable
// offline; a later import replaces it.
func DefaultQuestions() []surveyengine.Question {
	return []surveyengine.Question{
		{
			ID: "fb-001", Sequence: 1, Page: 1, Name: "intro_heading",
			Type:    surveyengine.QUESTION_TYPE_HEADING,
			LabelEN: "About you",
			LabelFR: "À propos de vous",
		},
		{
			ID: "fb-002", Sequence: 2, Page: 1, Name: "pt_name",
			Type:       surveyengine.QUESTION_TYPE_TEXT,
			LabelEN:    "What is your full name?",
			LabelFR:    "Quel est votre nom complet?",
			IsRequired: true,
		},
		{
			ID: "fb-003", Sequence: 3, Page: 1, Name: "pt_email",
			Type:       surveyengine.QUESTION_TYPE_TEXT,
			LabelEN:    "What is your email address?",
			LabelFR:    "Quelle est votre adresse courriel?",
			IsRequired: true,
			Format:     surveyengine.FORMAT_EMAIL,
		},
		{
			ID: "fb-004", Sequence: 4, Page: 1, Name: "pt_phone",
			Type:    surveyengine.QUESTION_TYPE_TEXT,
			LabelEN: "What is your phone number?",
			LabelFR: "Quel est votre numéro de téléphone?",
			Format:  surveyengine.FORMAT_PHONE,
		},
		{
			ID: "fb-005", Sequence: 5, Page: 2, Name: "dx_year",
			Type:       surveyengine.QUESTION_TYPE_TEXT,
			LabelEN:    "In what year were you diagnosed?",
			LabelFR:    "En quelle année avez-vous reçu votre diagnostic?",
			IsRequired: true,
			Format:     surveyengine.FORMAT_NUMBER,
			CharLimit:  4,
		},
		{
			ID: "fb-006", Sequence: 6, Page: 2, Name: "dx_stage",
			Type:      surveyengine.QUESTION_TYPE_RADIO,
			LabelEN:   "What stage was your diagnosis?",
			LabelFR:   "Quel était le stade de votre diagnostic?",
			OptionsEN: "stage_0|Stage 0||stage_1|Stage I||stage_2|Stage II||stage_3|Stage III||stage_4|Stage IV",
			OptionsFR: "stage_0|Stade 0||stage_1|Stade I||stage_2|Stade II||stage_3|Stade III||stage_4|Stade IV",
		},
		{
			ID: "fb-007", Sequence: 7, Page: 2, Name: "dx_stage_details",
			Type:             surveyengine.QUESTION_TYPE_TEXTAREA,
			LabelEN:          "[pt_name], please describe your stage IV diagnosis.",
			LabelFR:          "[pt_name], veuillez décrire votre diagnostic de stade IV.",
			DisplayCondition: "dx_stage == 'stage_4'",
		},
		{
			ID: "fb-008", Sequence: 8, Page: 3, Name: "pt_contact_request",
			Type:      surveyengine.QUESTION_TYPE_RADIO,
			LabelEN:   "Would you rather be contacted by our team instead of continuing?",
			LabelFR:   "Préférez-vous être contacté par notre équipe plutôt que de continuer?",
			OptionsEN: "Yes|Yes||No|No",
			OptionsFR: "Yes|Oui||No|Non",
		},
		{
			ID: "fb-009", Sequence: 9, Page: 4, Name: "pt_signature",
			Type:       surveyengine.QUESTION_TYPE_SIGN,
			LabelEN:    "Please sign to confirm your participation.",
			LabelFR:    "Veuillez signer pour confirmer votre participation.",
			IsRequired: true,
		},
		{
			ID: "fb-010", Sequence: 10, Page: 4, Name: "confirmation_file",
			Type:    surveyengine.QUESTION_TYPE_FILE,
			LabelEN: "Your consent document",
			LabelFR: "Votre document de consentement",
		},
	}
}
