package formdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DateList es la codificación de wire de una lista de fechas: una secuencia de
// mapas de una sola entrada, clave = índice secuencial como string.
//
//	[{"0": "9 de enero de 2025"}, {"1": "10 de febrero de 2025"}]
type DateList []map[string]string

// DateEntry es la forma editable de un elemento de DateList.
type DateEntry struct {
	Key   string
	Value string
}

// UnmarshalJSON acepta cualquier JSON: si no es una secuencia la lista queda
// vacía en lugar de fallar. Valores no-string se guardan con su texto JSON.
func (l *DateList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		*l = DateList{}
		return nil
	}
	out := make(DateList, 0, len(elems))
	for _, e := range elems {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(e, &raw); err != nil {
			return fmt.Errorf("formdoc: elemento de fecha no es un objeto: %s", e)
		}
		m := make(map[string]string, len(raw))
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				s = string(v)
			}
			m[k] = s
		}
		out = append(out, m)
	}
	*l = out
	return nil
}

func (l DateList) clone() DateList {
	if l == nil {
		return nil
	}
	out := make(DateList, len(l))
	for i, m := range l {
		c := make(map[string]string, len(m))
		for k, v := range m {
			c[k] = v
		}
		out[i] = c
	}
	return out
}

// Decode convierte la lista de wire a entradas {Key, Value}.
// Un elemento sin claves decodifica a {"", ""}; con varias claves se toma la
// menor en orden lexicográfico.
func (l DateList) Decode() []DateEntry {
	out := make([]DateEntry, 0, len(l))
	for _, m := range l {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			out = append(out, DateEntry{})
			continue
		}
		sort.Strings(keys)
		out = append(out, DateEntry{Key: keys[0], Value: m[keys[0]]})
	}
	return out
}

// EncodeDates es la inversa de Decode: cada entrada vuelve a {Key: Value}.
// La clave se preserva tal cual, incluso "".
func EncodeDates(entries []DateEntry) DateList {
	out := make(DateList, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]string{e.Key: e.Value})
	}
	return out
}

// nextDateKey asigna la siguiente clave secuencial: max(clave numérica)+1.
func nextDateKey(entries []DateEntry) string {
	next := 0
	for _, e := range entries {
		if n, err := strconv.Atoi(e.Key); err == nil && n+1 > next {
			next = n + 1
		}
	}
	if next < len(entries) {
		next = len(entries)
	}
	return strconv.Itoa(next)
}

var mesesES = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatLongDate convierte una fecha ISO (2025-01-09) a la forma larga en
// español ("9 de enero de 2025"). La fecha es civil: no hay corrimiento de zona.
// "" devuelve "".
func FormatLongDate(iso string) (string, error) {
	if iso == "" {
		return "", nil
	}
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return "", fmt.Errorf("formdoc: fecha inválida %q: %w", iso, err)
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), mesesES[t.Month()-1], t.Year()), nil
}

// EncodeISODates formatea cada fecha ISO y la envuelve con claves 0..n-1
// asignadas en orden. Es el camino del flujo de creación.
func EncodeISODates(isoDates []string) (DateList, error) {
	out := make(DateList, 0, len(isoDates))
	for i, iso := range isoDates {
		s, err := FormatLongDate(iso)
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]string{strconv.Itoa(i): s})
	}
	return out, nil
}
