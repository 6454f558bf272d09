package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mithrel/tutor/internal/config"
)

// applyConfigFlagOverrides copies changed flags into v. Flags named after a
// config key apply directly; extra maps other flag names to keys.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, extra map[string]string) {
	for _, opt := range config.GetConfigOptions() {
		if f := changedFlag(cmd, opt.Key); f != nil {
			setFromFlag(v, f, opt.Key)
		}
	}
	for flagName, key := range extra {
		if f := changedFlag(cmd, flagName); f != nil {
			setFromFlag(v, f, key)
		}
	}
}

// changedFlag looks in local and inherited flags.
func changedFlag(cmd *cobra.Command, name string) *pflag.Flag {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.InheritedFlags().Lookup(name)
	}
	if f == nil || !f.Changed {
		return nil
	}
	return f
}

func setFromFlag(v *viper.Viper, f *pflag.Flag, key string) {
	switch f.Value.Type() {
	case "bool":
		v.Set(key, f.Value.String() == "true")
	case "stringSlice":
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			v.Set(key, sv.GetSlice())
		}
	default:
		// viper casts numeric strings on Get.
		v.Set(key, f.Value.String())
	}
}
