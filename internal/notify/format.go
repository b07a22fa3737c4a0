package notify

import (
	"fmt"
	"strings"
	"time"
)

var esWeekdays = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// FormatSlot форматирует начало слота в человекочитаемую строку.
// Если loc != nil, время переводится в указанный часовой пояс.
// Если duration > 0, добавляется время окончания.
func FormatSlot(start time.Time, duration time.Duration, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}

	// Дата в формате ДД/ММ/ГГГГ
	base := fmt.Sprintf("%s %s, %s", esWeekdays[start.Weekday()], start.Format("02/01/2006"), start.Format("15:04"))
	if duration > 0 {
		base += "–" + start.Add(duration).Format("15:04")
	}
	return base + " hs"
}

// SlotInfo — данные для писем о бронировании.
type SlotInfo struct {
	SlotID      string
	Start       time.Time
	Duration    time.Duration
	ServiceName string
	Price       float64
	UserName    string
	UserEmail   string
	UserPhone   string
}

func BookingConfirmed(info SlotInfo, loc *time.Location) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", info.UserName)
	fmt.Fprintf(&b, "Tu turno quedó reservado para el %s.\n", FormatSlot(info.Start, info.Duration, loc))
	if info.ServiceName != "" {
		fmt.Fprintf(&b, "Servicio: %s ($%.2f)\n", info.ServiceName, info.Price)
	}
	b.WriteString("\nRecordá que podés cancelarlo hasta 24 horas antes.\n")
	return Message{
		To:      []string{info.UserEmail},
		Subject: "Turno confirmado",
		Body:    b.String(),
	}
}

func BookingCancelled(info SlotInfo, loc *time.Location) Message {
	return Message{
		To:      []string{info.UserEmail},
		Subject: "Turno cancelado",
		Body: fmt.Sprintf("Hola %s,\n\nTu turno del %s fue cancelado.\n",
			info.UserName, FormatSlot(info.Start, info.Duration, loc)),
	}
}

// OpsNotice — копия для почтового ящика администрации.
func OpsNotice(opsEmail, action string, info SlotInfo, loc *time.Location) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", action, FormatSlot(info.Start, info.Duration, loc))
	fmt.Fprintf(&b, "Cliente: %s <%s>", info.UserName, info.UserEmail)
	if info.UserPhone != "" {
		fmt.Fprintf(&b, ", tel. %s", info.UserPhone)
	}
	b.WriteString("\n")
	if info.ServiceName != "" {
		fmt.Fprintf(&b, "Servicio: %s\n", info.ServiceName)
	}
	fmt.Fprintf(&b, "Turno: %s\n", info.SlotID)
	return Message{
		To:      []string{opsEmail},
		Subject: action,
		Body:    b.String(),
	}
}

func Welcome(name, email string) Message {
	return Message{
		To:      []string{email},
		Subject: "Gracias por crear una cuenta",
		Body: fmt.Sprintf("Hola %s,\n\nTu cuenta fue creada. Ya podés iniciar sesión y reservar turnos cuando quieras.\n",
			name),
	}
}
