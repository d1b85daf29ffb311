package accesspoint

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Alias maps an alternative property name onto a canonical one. Aliases are
// listed rather than keyed because viper lowercases map keys.
type Alias struct {
	Alias string `mapstructure:"alias"`
	Name  string `mapstructure:"name"`
}

// Config describes a filesystem access point.
type Config struct {
	Format            string   `mapstructure:"format"`
	Root              string   `mapstructure:"root"`
	Pattern           string   `mapstructure:"pattern"`
	Encoding          string   `mapstructure:"encoding"`
	ParserAliases     []Alias  `mapstructure:"parser_aliases"`
	StorageAliases    []Alias  `mapstructure:"storage_aliases"`
	StorageProperties []string `mapstructure:"storage_properties"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", "binary")
	v.SetDefault("root", ".")
	v.SetDefault("pattern", "**/*")
	v.SetDefault("encoding", DefaultEncoding)
}

// Load reads the configuration file at path. The file type follows the
// extension; ITEMS_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ITEMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "accesspoint: read config %s", path)
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes a configured viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "accesspoint: decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects aliases with an empty side.
func (c Config) Validate() error {
	for _, list := range [][]Alias{c.ParserAliases, c.StorageAliases} {
		for _, alias := range list {
			if strings.TrimSpace(alias.Alias) == "" || strings.TrimSpace(alias.Name) == "" {
				return errors.WithHint(
					errors.Newf("accesspoint: incomplete alias %q -> %q", alias.Alias, alias.Name),
					"every alias needs both an alias and a name",
				)
			}
		}
	}
	return nil
}

// Static returns the alias tables and format of c as an access point.
func (c Config) Static() Static {
	return Static{
		FormatID:     c.Format,
		Parser:       aliasMap(c.ParserAliases),
		Storage:      aliasMap(c.StorageAliases),
		StorageNames: append([]string(nil), c.StorageProperties...),
		Encoding:     c.Encoding,
	}
}

func aliasMap(list []Alias) map[string]string {
	out := make(map[string]string, len(list))
	for _, alias := range list {
		out[alias.Alias] = alias.Name
	}
	return out
}
