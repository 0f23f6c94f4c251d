package gin

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen/feature"
)

const (
	configFile   = "config.yaml"
	swaggerPkg   = "github.com/swaggo/gin-swagger"
	swaggerFiles = "github.com/swaggo/files"
	yamlPkg      = "gopkg.in/yaml.v3"
)

// appConfig is the shape of the generated configuration file.
type appConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Datasource struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"datasource"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func (t *Target) appConfig() *appConfig {
	d := t.helper.Dialect()
	c := &appConfig{}
	c.Server.Port = 8080
	c.Datasource.Driver = d.Driver()
	c.Datasource.DSN = d.DSN(t.helper.Config().Database)
	c.Logging.Level = "info"
	return c
}

// GenConfig generates the application configuration file.
func (t *Target) GenConfig() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s service configuration.\n", t.helper.Entity().Name)
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(t.appConfig()); err != nil {
		return nil, fmt.Errorf("encode %s: %w", configFile, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// GenMigration generates the schema DDL of the backend dialect.
func (t *Target) GenMigration() []byte {
	e := t.helper.Entity()
	return []byte(fmt.Sprintf("-- %s table of the %s entity (%s).\n%s", e.Table, e.Name, t.helper.Dialect(), t.helper.DDL()))
}

// GenMain generates the application entry point.
func (t *Target) GenMain() *jen.File {
	h := t.helper
	e := h.Entity()
	defaults := t.appConfig()
	f := h.NewFile("main")
	f.Anon(h.Dialect().DriverImport())
	if h.HasDependency(feature.Config) {
		f.ImportName(yamlPkg, "yaml")
	}
	if h.HasDependency(feature.Docs) {
		f.ImportAlias(swaggerPkg, "ginSwagger")
		f.ImportAlias(swaggerFiles, "swaggerFiles")
	}

	f.Comment("config is the application configuration.")
	f.Type().Id("config").Struct(
		jen.Id("Server").Struct(
			jen.Id("Port").Int().Tag(map[string]string{"yaml": "port"}),
		).Tag(map[string]string{"yaml": "server"}),
		jen.Id("Datasource").Struct(
			jen.Id("Driver").String().Tag(map[string]string{"yaml": "driver"}),
			jen.Id("DSN").String().Tag(map[string]string{"yaml": "dsn"}),
		).Tag(map[string]string{"yaml": "datasource"}),
		jen.Id("Logging").Struct(
			jen.Id("Level").String().Tag(map[string]string{"yaml": "level"}),
		).Tag(map[string]string{"yaml": "logging"}),
	)

	f.Comment("loadConfig returns the defaults overridden by the configuration file")
	f.Comment("and the PORT and DATASOURCE_DSN environment variables.")
	f.Func().Id("loadConfig").Params(jen.Id("path").String()).Params(jen.Op("*").Id("config"), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Id("cfg").Op(":=").Op("&").Id("config").Values()
		g.Id("cfg").Dot("Server").Dot("Port").Op("=").Lit(defaults.Server.Port)
		g.Id("cfg").Dot("Datasource").Dot("Driver").Op("=").Lit(defaults.Datasource.Driver)
		g.Id("cfg").Dot("Datasource").Dot("DSN").Op("=").Lit(defaults.Datasource.DSN)
		g.Id("cfg").Dot("Logging").Dot("Level").Op("=").Lit(defaults.Logging.Level)
		if h.HasDependency(feature.Config) {
			g.List(jen.Id("b"), jen.Err()).Op(":=").Qual("os", "ReadFile").Call(jen.Id("path"))
			g.Switch().Block(
				jen.Case(jen.Err().Op("==").Nil()).Block(
					jen.If(
						jen.Err().Op(":=").Qual(yamlPkg, "Unmarshal").Call(jen.Id("b"), jen.Id("cfg")),
						jen.Err().Op("!=").Nil(),
					).Block(jen.Return(jen.Nil(), jen.Err())),
				),
				jen.Case(jen.Op("!").Qual("errors", "Is").Call(jen.Err(), jen.Qual("io/fs", "ErrNotExist"))).Block(
					jen.Return(jen.Nil(), jen.Err()),
				),
			)
		} else {
			g.Id("_").Op("=").Id("path")
		}
		g.If(jen.Id("v").Op(":=").Qual("os", "Getenv").Call(jen.Lit("DATASOURCE_DSN")), jen.Id("v").Op("!=").Lit("")).Block(
			jen.Id("cfg").Dot("Datasource").Dot("DSN").Op("=").Id("v"),
		)
		g.If(jen.Id("v").Op(":=").Qual("os", "Getenv").Call(jen.Lit("PORT")), jen.Id("v").Op("!=").Lit("")).Block(
			jen.List(jen.Id("port"), jen.Err()).Op(":=").Qual("strconv", "Atoi").Call(jen.Id("v")),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid PORT %q: %w"), jen.Id("v"), jen.Err())),
			),
			jen.Id("cfg").Dot("Server").Dot("Port").Op("=").Id("port"),
		)
		g.Return(jen.Id("cfg"), jen.Nil())
	})

	f.Func().Id("main").Params().BlockFunc(func(g *jen.Group) {
		g.If(jen.Err().Op(":=").Id("run").Call(), jen.Err().Op("!=").Nil()).Block(
			jen.Qual("log", "Fatal").Call(jen.Err()),
		)
	})

	f.Func().Id("run").Params().Error().BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("cfg"), jen.Err()).Op(":=").Id("loadConfig").Call(jen.Lit(configFile))
		g.Add(ifErrReturn(jen.Qual("fmt", "Errorf").Call(jen.Lit("load config: %w"), jen.Err())))
		g.List(jen.Id("db"), jen.Err()).Op(":=").Qual(sqlPkg, "Open").Call(
			jen.Id("cfg").Dot("Datasource").Dot("Driver"), jen.Id("cfg").Dot("Datasource").Dot("DSN"),
		)
		g.Add(ifErrReturn(jen.Qual("fmt", "Errorf").Call(jen.Lit("open database: %w"), jen.Err())))
		g.Defer().Id("db").Dot("Close").Call()

		g.Id("repo").Op(":=").Qual(h.RepositoryPkg(), "New"+sqlRepositoryName(e)).Call(jen.Id("db"))
		g.If(
			jen.Err().Op(":=").Id("repo").Dot("Migrate").Call(jen.Qual(ctxPkg, "Background").Call()),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("migrate: %w"), jen.Err())))

		g.If(jen.Id("cfg").Dot("Logging").Dot("Level").Op("!=").Lit("debug")).Block(
			jen.Qual(ginPkg, "SetMode").Call(jen.Qual(ginPkg, "ReleaseMode")),
		)
		g.Id("r").Op(":=").Qual(ginPkg, "Default").Call()
		g.Id("r").Dot("Use").Call(jen.Qual(h.ControllerPkg(), "ErrorHandler").Call())
		g.Qual(h.ControllerPkg(), "New"+controllerName(e)).Call(
			jen.Qual(h.ServicePkg(), "New"+serviceName(e)).Call(jen.Id("repo")),
		).Dot("Register").Call(jen.Id("r"))
		if h.HasDependency(feature.Docs) {
			g.Id("r").Dot("GET").Call(
				jen.Lit("/swagger/*any"),
				jen.Qual(swaggerPkg, "WrapHandler").Call(jen.Qual(swaggerFiles, "Handler")),
			)
		}
		g.Return(jen.Id("r").Dot("Run").Call(jen.Qual("fmt", "Sprintf").Call(jen.Lit(":%d"), jen.Id("cfg").Dot("Server").Dot("Port"))))
	})
	return f
}
