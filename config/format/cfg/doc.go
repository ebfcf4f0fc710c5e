// Package cfg provides the INI-style format adapter:
//
//	# reporting service
//	app_name = reporter
//
//	[database]
//	db_server = db1.example.com
//	use_tls = yes
//	replicas = [db2, db3]
//
// Values are read as text and converted by the template during resolution.
package cfg
