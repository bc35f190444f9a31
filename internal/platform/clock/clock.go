// Package clock normaliza timestamps de entidades: UTC truncado a milisegundos
// (lo que sobrevive un round-trip JSON/Postgres sin cambiar).
package clock

import "time"

func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Next devuelve el updatedAt de una nueva escritura: estrictamente mayor que prev
// aunque el reloj no haya avanzado.
func Next(prev, now time.Time) time.Time {
	n := Stamp(now)
	if !n.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return n
}
