package migrations

import _ "embed"

//go:embed create_therapists.sql
var createTherapistsSQL string

func init() {
	Migrations.MustRegister(execSQL(createTherapistsSQL), dropTables("therapists"))
}
