package formdoc

import (
	"strconv"
	"strings"
)

// VersionPrefix es el prefijo fijo de las versiones ("0.0.N").
const VersionPrefix = "0.0."

// VersionSeq extrae N del último segmento de la versión.
func VersionSeq(v string) (int, bool) {
	i := strings.LastIndexByte(v, '.')
	n, err := strconv.Atoi(strings.TrimSpace(v[i+1:]))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextVersion calcula la versión que tendría un documento nuevo del municipio:
// "0.0." + (max(N)+1), o "0.0.1" si el municipio no tiene versiones.
// Versiones con último segmento no numérico se ignoran.
func NextVersion(municipio string, docs []Document) string {
	max := 0
	for _, d := range docs {
		if d.CodigoMunicipio != municipio {
			continue
		}
		if n, ok := VersionSeq(d.Version); ok && n > max {
			max = n
		}
	}
	return VersionPrefix + strconv.Itoa(max+1)
}
