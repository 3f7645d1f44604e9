// Package extraction maps key/value pairs extracted from uploaded pathology
// reports onto matching catalog questions. Questions are located by name or
// label heuristics; recognized values are written straight into the answer
// set as a one-shot bulk mutation.
package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

var (
	her2NameRegex   = regexp.MustCompile(`her\s*-?\s*2|her2`)
	her2LabelRegex  = regexp.MustCompile(`(?i)her\s*-?\s*2`)
	ki67Regex       = regexp.MustCompile(`ki\s*-?\s*67`)
	ki67LabelRegex  = regexp.MustCompile(`(?i)ki\s*-?\s*67`)
	erNameRegex     = regexp.MustCompile(`(^|[_-])er([_-]|$)`)
	erLabelRegex    = regexp.MustCompile(`(?i)estrogen\s*receptor|\ber\b`)
	prNameRegex     = regexp.MustCompile(`(^|[_-])pr([_-]|$)`)
	prLabelRegex    = regexp.MustCompile(`(?i)progesterone\s*receptor|\bpr\b`)
	pdl1NameRegex   = regexp.MustCompile(`pd\s*-?\s*l1`)
	pdl1LabelRegex  = regexp.MustCompile(`(?i)pd\s*-?\s*l1[^\n]*%|pd\s*-?\s*l1[^\n]*percent`)
	stageNameRegex  = regexp.MustCompile(`^dx_stage$`)
	stageLabelRegex = regexp.MustCompile(`(?i)what\s*stage.*diagnosis`)
	dxNameRegex     = regexp.MustCompile(`dx[_-]?date|date[_-]?of[_-]?diagnosis|diagnosis[_-]?date|initial.*diagnosis`)
	dxLabelRegex    = regexp.MustCompile(`(?i)initial.*diagnosis|date.*diagnosis`)
	pik3caRegex     = regexp.MustCompile(`pik3ca`)
	pik3caLabel     = regexp.MustCompile(`(?i)pik3ca`)
	brcaRegex       = regexp.MustCompile(`brca`)
	brcaLabelRegex  = regexp.MustCompile(`(?i)brca`)

	positiveRegex      = regexp.MustCompile(`(?i)pos|mutat|detected`)
	her2PositiveRegex  = regexp.MustCompile(`(?i)positive`)
	her2EquivocalRegex = regexp.MustCompile(`(?i)equivocal`)
	her2ZeroRegex      = regexp.MustCompile(`\b0\b`)

	isoDateRegex   = regexp.MustCompile(`^(\d{4})[-/]?(\d{1,2})[-/]?(\d{1,2})$`)
	shortDateRegex = regexp.MustCompile(`^(\d{1,2})[-/]?(\d{1,2})[-/]?(\d{2,4})$`)
)

// Apply writes the recognized keys of an extraction result into the answer
// set and returns how many answers were set. Unknown keys, unmatched
// questions and unmatched option values are skipped silently - extraction is
// best-effort prefilling, never authoritative.
func Apply(extracted map[string]string, questions []surveyengine.Question, responses map[string]surveyengine.Response, lang string) int {
	if len(extracted) == 0 {
		return 0
	}

	m := &mapper{
		questions: questions,
		responses: responses,
		lang:      lang,
	}

	m.applyHER2(extracted["HER2"], extracted["HER2Score"])
	m.applyKi67(extracted["Ki67"])
	m.applyReceptor(extracted["ER"], erNameRegex, erLabelRegex)
	m.applyReceptor(extracted["PR"], prNameRegex, prLabelRegex)
	m.applyPDL1(extracted["PDL1Percent"])
	m.applyStage(extracted["stage"])
	m.applyDiagnosisDate(extracted["dateOfDiagnosis"])
	m.applyPIK3CA(extracted["PIK3CA"], extracted["PIK3CAStatus"])
	m.applyBRCA(extracted["BRCA"])

	return m.changed
}

type mapper struct {
	questions []surveyengine.Question
	responses map[string]surveyengine.Response
	lang      string
	changed   int
}

func (m *mapper) findByName(re *regexp.Regexp) *surveyengine.Question {
	for i := range m.questions {
		if re.MatchString(strings.ToLower(m.questions[i].Name)) {
			return &m.questions[i]
		}
	}
	return nil
}

func (m *mapper) findByLabel(re *regexp.Regexp) *surveyengine.Question {
	for i := range m.questions {
		if re.MatchString(m.questions[i].Label(m.lang)) {
			return &m.questions[i]
		}
	}
	return nil
}

func (m *mapper) find(nameRe, labelRe *regexp.Regexp) *surveyengine.Question {
	if question := m.findByName(nameRe); question != nil {
		return question
	}
	return m.findByLabel(labelRe)
}

func (m *mapper) options(question *surveyengine.Question) []surveyengine.Option {
	return surveyengine.ParseOptions(question.RawOptions(m.lang))
}

func (m *mapper) set(question *surveyengine.Question, value string) {
	if question == nil || value == "" {
		return
	}
	response, ok := m.responses[question.ID]
	if !ok {
		response = surveyengine.Response{
			QuestionID: question.ID,
			Name:       question.Name,
		}
	}
	response.Value = value
	m.responses[question.ID] = response
	m.changed++
}

// pickByIncludes returns the value of the first option whose label or value
// contains any of the needles, case-insensitively.
func pickByIncludes(options []surveyengine.Option, needles ...string) string {
	for _, option := range options {
		label := strings.ToLower(option.Label)
		value := strings.ToLower(option.Value)
		for _, needle := range needles {
			needle = strings.ToLower(needle)
			if strings.Contains(label, needle) || strings.Contains(value, needle) {
				return option.Value
			}
		}
	}
	return ""
}

func (m *mapper) applyHER2(her2, her2Score string) {
	if her2 == "" && her2Score == "" {
		return
	}
	question := m.find(her2NameRegex, her2LabelRegex)
	if question == nil {
		return
	}
	options := m.options(question)

	value := ""
	if her2Score != "" {
		score := strings.ToLower(her2Score)
		switch {
		case strings.Contains(score, "3+"):
			value = pickByIncludes(options, "3+")
		case strings.Contains(score, "2+"):
			value = pickByIncludes(options, "2+")
		case strings.Contains(score, "1+"):
			value = pickByIncludes(options, "+1", "1+")
		case her2ZeroRegex.MatchString(score):
			value = pickByIncludes(options, "0")
		}
	}
	if value == "" && her2 != "" {
		switch {
		case her2PositiveRegex.MatchString(her2):
			value = pickByIncludes(options, "3+", "positive")
		case her2EquivocalRegex.MatchString(her2):
			value = pickByIncludes(options, "2+", "equivocal")
		default:
			value = pickByIncludes(options, "0", "negative", "1+")
		}
	}
	m.set(question, value)
}

func (m *mapper) applyKi67(ki67 string) {
	if ki67 == "" {
		return
	}
	question := m.find(ki67Regex, ki67LabelRegex)
	if question == nil {
		return
	}
	m.set(question, strings.TrimSpace(strings.ReplaceAll(ki67, "%", "")))
}

func (m *mapper) applyReceptor(status string, nameRe, labelRe *regexp.Regexp) {
	if status == "" {
		return
	}
	question := m.find(nameRe, labelRe)
	if question == nil {
		return
	}
	options := m.options(question)
	if len(options) == 0 {
		m.set(question, status)
		return
	}

	var value string
	if positiveRegex.MatchString(status) {
		value = pickByIncludes(options, "pos", "positive", "yes")
	} else {
		value = pickByIncludes(options, "neg", "negative", "no", "0%")
	}
	if value == "" {
		value = status
	}
	m.set(question, value)
}

func (m *mapper) applyPDL1(percent string) {
	if percent == "" {
		return
	}
	question := m.find(pdl1NameRegex, pdl1LabelRegex)
	if question == nil {
		return
	}
	m.set(question, strings.TrimSpace(strings.ReplaceAll(percent, "%", "")))
}

func (m *mapper) applyStage(stage string) {
	if stage == "" {
		return
	}
	question := m.find(stageNameRegex, stageLabelRegex)
	if question == nil {
		// fall back to the question whose options enumerate the stages
		for i := range m.questions {
			labels := map[string]bool{}
			for _, option := range m.options(&m.questions[i]) {
				labels[strings.ToLower(option.Label)] = true
			}
			if labels["stage 0"] && labels["stage i"] && labels["stage ii"] {
				question = &m.questions[i]
				break
			}
		}
	}
	if question == nil {
		return
	}
	options := m.options(question)

	lower := strings.ToLower(stage)
	var value string
	switch {
	case strings.Contains(lower, "iv"):
		value = pickByIncludes(options, "stage iv", "iv", "4")
	case strings.Contains(lower, "iii"):
		value = pickByIncludes(options, "stage iii", "iii", "3")
	case strings.Contains(lower, "ii"):
		value = pickByIncludes(options, "stage ii", "ii", "2")
	case strings.Contains(lower, "i"):
		value = pickByIncludes(options, "stage i", " i ", "1")
	default:
		value = pickByIncludes(options, "stage 0", "dcis", "0")
	}
	m.set(question, value)
}

func (m *mapper) applyDiagnosisDate(date string) {
	if date == "" {
		return
	}
	question := m.find(dxNameRegex, dxLabelRegex)
	if question == nil {
		return
	}

	normalized := strings.ReplaceAll(date, " ", "")
	normalized = strings.ReplaceAll(normalized, ".", "/")

	out := normalized
	if parts := isoDateRegex.FindStringSubmatch(normalized); parts != nil {
		out = fmt.Sprintf("%s/%s/%s", stripLeadingZero(parts[2]), stripLeadingZero(parts[3]), parts[1])
	} else if parts := shortDateRegex.FindStringSubmatch(normalized); parts != nil {
		year := parts[3]
		if len(year) == 2 {
			year = "20" + year
		}
		out = fmt.Sprintf("%s/%s/%s", stripLeadingZero(parts[1]), stripLeadingZero(parts[2]), year)
	}
	m.set(question, out)
}

func stripLeadingZero(part string) string {
	return strings.TrimLeft(part, "0")
}

func (m *mapper) applyPIK3CA(pik3ca, status string) {
	combined := pik3ca
	if combined == "" {
		combined = status
	}
	if combined == "" {
		return
	}
	question := m.find(pik3caRegex, pik3caLabel)
	if question == nil {
		return
	}
	options := m.options(question)

	lower := strings.ToLower(combined)
	mutated := strings.Contains(lower, "pos") || strings.Contains(lower, "mutat")

	var value string
	if mutated {
		value = pickByIncludes(options, "positive")
	} else {
		value = pickByIncludes(options, "negative")
	}
	if value == "" {
		if mutated {
			value = pickByIncludes(options, "yes")
		} else {
			value = pickByIncludes(options, "no")
		}
	}
	if value == "" {
		value = pickByIncludes(options, "tested", "not tested")
	}
	m.set(question, value)
}

func (m *mapper) applyBRCA(brca string) {
	if brca == "" {
		return
	}
	question := m.find(brcaRegex, brcaLabelRegex)
	if question == nil {
		return
	}
	options := m.options(question)

	var value string
	if positiveRegex.MatchString(brca) {
		value = pickByIncludes(options, "yes")
		if value == "" {
			value = pickByIncludes(options, "positive")
		}
	} else {
		value = pickByIncludes(options, "no")
		if value == "" {
			value = pickByIncludes(options, "negative")
		}
	}
	if value == "" {
		value = pickByIncludes(options, "i do not know", "unknown")
	}
	m.set(question, value)
}
