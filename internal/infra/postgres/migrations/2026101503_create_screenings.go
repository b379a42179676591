package migrations

import _ "embed"

//go:embed create_screenings.sql
var createScreeningsSQL string

func init() {
	Migrations.MustRegister(execSQL(createScreeningsSQL), dropTables("screening_answers", "screening_scores", "screenings"))
}
