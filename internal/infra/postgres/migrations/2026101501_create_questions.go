package migrations

import _ "embed"

//go:embed create_questions.sql
var createQuestionsSQL string

func init() {
	Migrations.MustRegister(execSQL(createQuestionsSQL), dropTables("questions"))
}
