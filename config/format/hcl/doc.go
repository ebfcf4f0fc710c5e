// Package hcl provides the HCL format adapter, built on
// github.com/hashicorp/hcl/v2 and github.com/zclconf/go-cty:
//
//	app_name = "reporter"
//
//	database {
//	  db_server = "db1.example.com"
//	  replicas  = ["db2", "db3"]
//	}
//
// Integral numbers read back as integers.
package hcl
