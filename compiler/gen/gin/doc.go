// Package gin implements a gen.MinimalTarget that generates a layered Go
// service: gin request handling on top of a database/sql repository.
//
// Usage:
//
//	import (
//	    "github.com/syssam/crudgen/compiler/gen"
//	    "github.com/syssam/crudgen/compiler/gen/gin"
//	)
//
//	a, _ := gen.NewAssembler(s, sel)
//	a.WithTarget(gin.NewTarget(a))
//	set, err := a.Assemble(ctx)
//
// Generated project structure:
//
//	{module}/
//	├── go.mod                                # build-manifest
//	├── config.yaml                           # application-config
//	├── migrations/schema.sql                 # migration
//	├── cmd/server/main.go                    # application-main
//	└── internal/
//	    ├── apperr/                           # not-found, already-exists, internal errors
//	    ├── model/{entity}.go                 # persistence model
//	    ├── dto/{entity}.go                   # transfer object
//	    ├── mapper/{entity}.go                # mapping rules
//	    ├── repository/{entity}.go            # persistence-access contract
//	    ├── repository/{entity}_sql.go        # database/sql implementation
//	    ├── service/{entity}.go               # business logic
//	    ├── controller/{entity}.go            # gin handlers
//	    ├── controller/errors.go              # error handler middleware
//	    └── search/                           # criteria type and predicate builder
package gin
