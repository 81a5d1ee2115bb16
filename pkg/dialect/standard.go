package dialect

// Built-in vendors. Each is registered under its Kind's name.
func init() {
	Register(&Dialect{
		Name:                "sqlserver",
		Kind:                KindSQLServer,
		DefaultSchema:       "dbo",
		DoubleQuoteIsString: false,
		BracketIdentifiers:  true,
	})
	Register(&Dialect{
		Name:                "postgres",
		Kind:                KindPostgres,
		DefaultSchema:       "public",
		DoubleQuoteIsString: false,
	})
	Register(&Dialect{
		Name:                "mysql",
		Kind:                KindMySQL,
		DefaultSchema:       "",
		DoubleQuoteIsString: true,
	})
	Register(&Dialect{
		Name:                "sqlite",
		Kind:                KindSQLite,
		DefaultSchema:       "main",
		DoubleQuoteIsString: false,
	})
}
