package role

type Role int

// Нулевое значение не является ролью: токен без роли не проходит проверку
const (
	Viewer   Role = iota + 1 // только чтение
	Operator                 // создание разделов, seed
	Admin                    // всё, включая очистку базы
)

func (r Role) String() string {
	switch r {
	case Viewer:
		return "viewer"
	case Operator:
		return "operator"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Parse переводит строковое имя роли из CLI/конфига в Role
func Parse(s string) (Role, bool) {
	switch s {
	case "viewer":
		return Viewer, true
	case "operator":
		return Operator, true
	case "admin":
		return Admin, true
	}
	return 0, false
}
