package sqlite

type scannable interface {
	Scan(...any) error
}
