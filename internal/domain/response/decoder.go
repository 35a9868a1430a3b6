package response

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/pkg/textnorm"
)

// Option is one entry of a choice question's option table.
type Option struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Valor int    `json:"valor"`
}

// Decoder turns stored payloads into Values. It never fails: payloads that do
// not fit the question type degrade to None or Text and are logged at WARN.
type Decoder struct {
	log *logger.Logger
}

func NewDecoder(log *logger.Logger) *Decoder {
	return &Decoder{log: logger.OrNop(log)}
}

// For returns a decoder whose warnings carry the question id.
func (d *Decoder) For(questionID int64) *Decoder {
	return &Decoder{log: d.log.With("question_id", questionID)}
}

// DecodeJSON decodes a raw JSON payload as stored in the responses table.
func (d *Decoder) DecodeJSON(qt QuestionType, raw []byte, opts []Option) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return None()
	}
	v, err := unmarshalAny(raw)
	if err != nil {
		d.warn(qt, "payload is not valid JSON", err)
		return Text(string(raw))
	}
	return d.Decode(qt, v, opts)
}

// Decode decodes an already unmarshalled payload. raw may be nil, a bool, any
// Go integer or float, json.Number, a string (optionally holding JSON), a
// map[string]any or a []any.
func (d *Decoder) Decode(qt QuestionType, raw any, opts []Option) Value {
	if raw == nil {
		return None()
	}

	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			parsed, err := unmarshalAny([]byte(trimmed))
			if err != nil {
				return Text(s)
			}
			raw = parsed
		}
	}

	switch {
	case qt.IsChoice():
		return d.decodeChoice(qt, raw, opts)
	case qt == TypeCheckbox:
		return d.decodeCheckbox(qt, raw)
	case qt.IsSIS():
		return d.decodeSIS(qt, raw)
	case qt == TypeBinary:
		return d.decodeBinary(qt, raw)
	case qt == TypeCh:
		return d.decodeCh(qt, raw)
	case qt == TypeMeta:
		return d.decodeMeta(qt, raw)
	case qt == TypeNumeric:
		return d.decodeNumeric(raw)
	default:
		return decodeText(raw)
	}
}

func (d *Decoder) decodeChoice(qt QuestionType, raw any, opts []Option) Value {
	switch t := raw.(type) {
	case map[string]any:
		if vr, ok := t["valor"]; ok && vr != nil {
			if n, ok := toInt(vr); ok {
				return choiceFromValor(n, opts)
			}
		}
		if tr, ok := t["texto"]; ok && tr != nil {
			if s, ok := tr.(string); ok {
				return choiceFromText(s, opts)
			}
		}
		d.warn(qt, "choice object without valor/texto", nil)
		return None()
	case string:
		if n, ok := toInt(t); ok {
			return choiceFromValor(n, opts)
		}
		return choiceFromText(t, opts)
	case bool, []any:
		d.warn(qt, "unsupported choice payload", nil)
		return None()
	default:
		if n, ok := toInt(t); ok {
			return choiceFromValor(n, opts)
		}
		d.warn(qt, "unsupported choice payload", nil)
		return None()
	}
}

// choiceFromValor resolves the option by valor first and by position second.
// Unresolved values are kept as bare integers.
func choiceFromValor(n int, opts []Option) Value {
	v := Int(n)
	for _, o := range opts {
		if o.Valor == n {
			v.Text = o.Text
			return v
		}
	}
	if n >= 0 && n < len(opts) {
		v.Text = opts[n].Text
		v.Int = opts[n].Valor
	}
	return v
}

func choiceFromText(s string, opts []Option) Value {
	key := textnorm.Fold(s)
	for _, o := range opts {
		if textnorm.Fold(o.Text) == key {
			v := Int(o.Valor)
			v.Text = o.Text
			return v
		}
	}
	return Text(s)
}

func (d *Decoder) decodeCheckbox(qt QuestionType, raw any) Value {
	switch t := raw.(type) {
	case []any:
		ids := make([]int, 0, len(t))
		for _, it := range t {
			if n, ok := toID(it); ok {
				ids = append(ids, n)
				continue
			}
			d.warn(qt, "checkbox entry is not an option id", nil)
		}
		return OptionIDs(ids)
	case map[string]any, bool:
		d.warn(qt, "checkbox payload is not a list", nil)
		return None()
	default:
		if n, ok := toInt(t); ok {
			return OptionIDs([]int{n})
		}
		d.warn(qt, "checkbox payload is not a list", nil)
		return None()
	}
}

func (d *Decoder) decodeSIS(qt QuestionType, raw any) Value {
	obj, ok := raw.(map[string]any)
	if !ok {
		d.warn(qt, "sis payload is not an object", nil)
		return None()
	}

	a := SISAnswer{
		Frequency:   d.sisField(qt, obj, "frequency", "frecuencia"),
		SupportTime: d.sisField(qt, obj, "support_time", "tiempo_apoyo"),
		SupportType: d.sisField(qt, obj, "support_type", "tipo_apoyo"),
		SubitemIDs:  []int{},
	}

	if list, ok := lookup(obj, "subitems", "subitem_ids").([]any); ok {
		for _, it := range list {
			if n, ok := toID(it); ok {
				a.SubitemIDs = append(a.SubitemIDs, n)
			}
		}
	}
	return SIS(a)
}

// sisField coerces one of the triple's components. Absent or unparsable
// values count as 0, and so do ratings outside the 0..4 scale.
func (d *Decoder) sisField(qt QuestionType, obj map[string]any, keys ...string) int {
	n, ok := toInt(lookup(obj, keys...))
	if !ok {
		return 0
	}
	if n < 0 || n > 4 {
		d.warn(qt, "sis rating "+keys[0]+" outside 0..4", nil)
		return 0
	}
	return n
}

func (d *Decoder) decodeBinary(qt QuestionType, raw any) Value {
	switch t := raw.(type) {
	case bool:
		return Flag(t)
	case string:
		switch textnorm.Fold(t) {
		case "si", "true", "1", "yes":
			return Flag(true)
		case "no", "false", "0":
			return Flag(false)
		}
		d.warn(qt, "binary string is neither Sí nor No", nil)
		return Text(t)
	case map[string]any:
		if vr, ok := t["valor"]; ok {
			return d.decodeBinary(qt, vr)
		}
		d.warn(qt, "binary object without valor", nil)
		return None()
	default:
		if n, ok := toInt(t); ok && (n == 0 || n == 1) {
			return Flag(n == 1)
		}
		d.warn(qt, "unsupported binary payload", nil)
		return None()
	}
}

func (d *Decoder) decodeCh(qt QuestionType, raw any) Value {
	obj, ok := raw.(map[string]any)
	if !ok {
		d.warn(qt, "ch payload is not an object", nil)
		return None()
	}
	res, _ := obj["resultado"].(string)
	r := ChResult(strings.TrimSpace(res))
	if !r.Valid() {
		d.warn(qt, "ch payload has no valid resultado", nil)
		return None()
	}

	a := ChAnswer{Result: r}
	if n, ok := toInt(lookup(obj, "aid_id", "ayuda_id")); ok {
		a.AidID = &n
	}
	if s, ok := lookup(obj, "aid_text", "ayuda_texto").(string); ok {
		a.AidText = s
	}
	return Ch(a)
}

func (d *Decoder) decodeMeta(qt QuestionType, raw any) Value {
	obj, ok := raw.(map[string]any)
	if !ok {
		d.warn(qt, "meta payload is not an object", nil)
		return None()
	}
	goal, okGoal := obj["meta"].(string)
	steps, okSteps := obj["pasos"].([]any)
	if !okGoal || !okSteps {
		d.warn(qt, "meta payload requires meta and pasos", nil)
		return None()
	}

	a := MetaAnswer{Goal: goal, Steps: make([]MetaStep, 0, len(steps))}
	for _, it := range steps {
		so, ok := it.(map[string]any)
		if !ok {
			continue
		}
		desc, _ := so["descripcion"].(string)
		who, _ := so["encargado"].(string)
		a.Steps = append(a.Steps, MetaStep{Description: desc, Assignee: who})
	}
	return Meta(a)
}

func (d *Decoder) decodeNumeric(raw any) Value {
	if f, ok := toFloat(raw); ok {
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return Int(int(f))
		}
		return Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return decodeText(raw)
}

func decodeText(raw any) Value {
	switch t := raw.(type) {
	case string:
		return Text(t)
	case bool:
		return Flag(t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return None()
		}
		return Text(string(b))
	default:
		if f, ok := toFloat(t); ok {
			return Text(strconv.FormatFloat(f, 'f', -1, 64))
		}
		return None()
	}
}

func (d *Decoder) warn(qt QuestionType, msg string, err error) {
	if err != nil {
		d.log.Warn("malformed response payload", "question_type", string(qt), "reason", msg, "error", err)
		return
	}
	d.log.Warn("malformed response payload", "question_type", string(qt), "reason", msg)
}

func unmarshalAny(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func lookup(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// toID accepts an integer-ish value or an {"id": ...} object.
func toID(v any) (int, bool) {
	if obj, ok := v.(map[string]any); ok {
		return toInt(obj["id"])
	}
	return toInt(v)
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
