package response

import "strconv"

type QuestionType string

const (
	TypeMultiple QuestionType = "multiple"
	TypeCheckbox QuestionType = "checkbox"
	TypeBinary   QuestionType = "binary"
	TypeDropdown QuestionType = "dropdown"
	TypeOpen     QuestionType = "open"
	TypeNumeric  QuestionType = "numeric"
	TypeDate     QuestionType = "date"
	TypeSIS      QuestionType = "sis"
	TypeSIS2     QuestionType = "sis2"
	TypeCh       QuestionType = "ch"
	TypeED       QuestionType = "ed"
	TypeImage    QuestionType = "image"
	TypeMeta     QuestionType = "meta"
)

// IsSIS reports whether answers of this type carry a frequency/time/type triple.
func (t QuestionType) IsSIS() bool {
	return t == TypeSIS || t == TypeSIS2
}

// IsChoice reports whether answers of this type select a single option.
func (t QuestionType) IsChoice() bool {
	return t == TypeMultiple || t == TypeDropdown || t == TypeED
}

type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindText
	KindOptionIDs
	KindSIS
	KindCh
	KindMeta
	KindFlag
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindText:
		return "text"
	case KindOptionIDs:
		return "option_ids"
	case KindSIS:
		return "sis"
	case KindCh:
		return "ch"
	case KindMeta:
		return "meta"
	case KindFlag:
		return "flag"
	default:
		return "none"
	}
}

type ChResult string

const (
	ChDoes       ChResult = "lo_hace"
	ChInProgress ChResult = "en_proceso"
	ChDoesNot    ChResult = "no_lo_hace"
)

func (r ChResult) Valid() bool {
	switch r {
	case ChDoes, ChInProgress, ChDoesNot:
		return true
	default:
		return false
	}
}

type SISAnswer struct {
	Frequency   int   `json:"frequency"`
	SupportTime int   `json:"support_time"`
	SupportType int   `json:"support_type"`
	SubitemIDs  []int `json:"subitems"`
}

// Direct is the per-question contribution to the section's direct score.
func (a SISAnswer) Direct() int {
	return a.Frequency + a.SupportTime + a.SupportType
}

type ChAnswer struct {
	Result  ChResult `json:"resultado"`
	AidID   *int     `json:"aid_id,omitempty"`
	AidText string   `json:"aid_text,omitempty"`
}

type MetaStep struct {
	Description string `json:"descripcion"`
	Assignee    string `json:"encargado"`
}

type MetaAnswer struct {
	Goal  string     `json:"meta"`
	Steps []MetaStep `json:"pasos"`
}

// Value is the decoded form of a stored answer. Only the fields that belong
// to Kind are meaningful. For single-choice questions Kind is KindInt with
// Int holding the option valor and Text holding the option label when the
// option table resolved it.
type Value struct {
	Kind      Kind
	Int       int
	Text      string
	OptionIDs []int
	SIS       SISAnswer
	Ch        ChAnswer
	Meta      MetaAnswer
	Flag      bool
}

func None() Value         { return Value{Kind: KindNone} }
func Int(n int) Value     { return Value{Kind: KindInt, Int: n} }
func Text(s string) Value { return Value{Kind: KindText, Text: s} }
func Flag(b bool) Value   { return Value{Kind: KindFlag, Flag: b} }

func OptionIDs(ids []int) Value { return Value{Kind: KindOptionIDs, OptionIDs: ids} }
func SIS(a SISAnswer) Value     { return Value{Kind: KindSIS, SIS: a} }
func Ch(a ChAnswer) Value       { return Value{Kind: KindCh, Ch: a} }
func Meta(a MetaAnswer) Value   { return Value{Kind: KindMeta, Meta: a} }

// IsEmpty reports whether the value counts as "no answer" for status tracking.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNone:
		return true
	case KindText:
		return v.Text == ""
	case KindOptionIDs:
		return len(v.OptionIDs) == 0
	default:
		return false
	}
}

// Display renders the value the way reports show it.
func (v Value) Display() string {
	switch v.Kind {
	case KindInt:
		if v.Text != "" {
			return v.Text
		}
		return strconv.Itoa(v.Int)
	case KindText:
		return v.Text
	case KindFlag:
		if v.Flag {
			return "Sí"
		}
		return "No"
	case KindCh:
		return string(v.Ch.Result)
	case KindMeta:
		return v.Meta.Goal
	default:
		return ""
	}
}
