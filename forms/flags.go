package forms

// FieldFlag is a bit of the /Ff field flags entry.
type FieldFlag uint32

const (
	FlagReadOnly          FieldFlag = 1 << 0
	FlagRequired          FieldFlag = 1 << 1
	FlagNoExport          FieldFlag = 1 << 2
	FlagMultiline         FieldFlag = 1 << 12
	FlagPassword          FieldFlag = 1 << 13
	FlagNoToggleToOff     FieldFlag = 1 << 14
	FlagRadio             FieldFlag = 1 << 15
	FlagPushButton        FieldFlag = 1 << 16
	FlagCombo             FieldFlag = 1 << 17
	FlagEdit              FieldFlag = 1 << 18
	FlagSort              FieldFlag = 1 << 19
	FlagFileSelect        FieldFlag = 1 << 20
	FlagMultiSelect       FieldFlag = 1 << 21
	FlagDoNotSpellCheck   FieldFlag = 1 << 22
	FlagDoNotScroll       FieldFlag = 1 << 23
	FlagComb              FieldFlag = 1 << 24
	FlagRichText          FieldFlag = 1 << 25
	FlagRadiosInUnison    FieldFlag = 1 << 25
	FlagCommitOnSelChange FieldFlag = 1 << 26
)

// AnnotationFlag is a bit of the annotation /F entry.
type AnnotationFlag int

const (
	AnnotInvisible      AnnotationFlag = 1
	AnnotHidden         AnnotationFlag = 2
	AnnotPrint          AnnotationFlag = 4
	AnnotNoZoom         AnnotationFlag = 8
	AnnotNoRotate       AnnotationFlag = 16
	AnnotNoView         AnnotationFlag = 32
	AnnotReadOnly       AnnotationFlag = 64
	AnnotLocked         AnnotationFlag = 128
	AnnotToggleNoView   AnnotationFlag = 256
	AnnotLockedContents AnnotationFlag = 512
)

// Visibility is a shorthand for common combinations of annotation flags.
type Visibility int

const (
	Hidden Visibility = iota + 1
	VisibleButDoesNotPrint
	HiddenButPrintable
	Visible
)

// CheckBoxType selects the mark drawn in a checked checkbox.
type CheckBoxType int

const (
	CheckCross CheckBoxType = iota
	CheckCheck
	CheckCircle
	CheckDiamond
	CheckSquare
	CheckStar
)

// zapfDingbats returns the ZapfDingbats character conventionally stored as
// the MK/CA caption of a checkbox of this type.
func (t CheckBoxType) zapfDingbats() string {
	switch t {
	case CheckCheck:
		return "4"
	case CheckCircle:
		return "l"
	case CheckDiamond:
		return "u"
	case CheckSquare:
		return "n"
	case CheckStar:
		return "H"
	}
	return "8"
}

func (t CheckBoxType) String() string {
	switch t {
	case CheckCheck:
		return "check"
	case CheckCircle:
		return "circle"
	case CheckCross:
		return "cross"
	case CheckDiamond:
		return "diamond"
	case CheckSquare:
		return "square"
	case CheckStar:
		return "star"
	}
	return "unknown"
}

// FieldKind is the appearance family of a field. It selects the drawer
// used when a widget is regenerated.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindText
	KindCombText
	KindChoice
	KindPushButton
	KindRadio
	KindCheckbox
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCombText:
		return "comb"
	case KindChoice:
		return "choice"
	case KindPushButton:
		return "pushbutton"
	case KindRadio:
		return "radio"
	case KindCheckbox:
		return "checkbox"
	}
	return "unknown"
}

// AppearanceType names an entry of the /AP dictionary.
type AppearanceType string

const (
	AppearanceNormal   AppearanceType = "N"
	AppearanceRollover AppearanceType = "R"
	AppearanceDown     AppearanceType = "D"
)

// Field type names (/FT).
const (
	TypeText      = "Tx"
	TypeButton    = "Btn"
	TypeChoice    = "Ch"
	TypeSignature = "Sig"
)

// Appearance state names.
const (
	StateOff  = "Off"
	StateOn   = "Yes"
	statePush = "push"
)
