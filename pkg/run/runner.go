/*
   LsdSav - LSDj save image song manager
   Copyright (c) 2022, the LsdSav authors

   This file is part of LsdSav.

   LsdSav is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   LsdSav is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with LsdSav. If not, see <http://www.gnu.org/licenses/>.
*/

package run

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lsdpatch/lsdsav/pkg/control"
	"github.com/lsdpatch/lsdsav/pkg/format"
	"github.com/lsdpatch/lsdsav/pkg/sav"
)

//
const envPrefix = "LSDSAV"

//
const runnerHelpEpilogue = `- All options can also be set via environment variables, named after the long
  option in upper case, with dashes replaced by underscores, and prefixed with
  LSDSAV_, e.g. LSDSAV_LOG_LEVEL=debug.

- Slots are numbered 1 through 32, as shown by the ls command.

`

//
type setting struct {
	ref      interface{}
	name     string
	required bool
}

// NewRunner creates a runner for a command. exec gets called when the command
// is run.
func NewRunner(use, short, long, example, epilogue string,
	exec func() error) *Runner {

	r := &Runner{viper: viper.New()}

	r.Command = cobra.Command{
		Use:          use,
		Short:        short,
		Long:         long,
		Example:      example,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exec()
		},
	}

	r.Flags().SetNormalizeFunc(normalizeName)

	if epilogue != "" {
		r.SetHelpTemplate(r.HelpTemplate() + "\nNotes:\n\n" + epilogue)
	}

	return r
}

// Runner is the base for all commands. Settings are bound to fields of the
// embedding command via AddSetting, and resolved from flags, environment, and
// defaults when calling ParseSettings.
type Runner struct {
	cobra.Command
	//
	Address   string
	LogLevel  string
	LogFormat string
	//
	Sav string
	ROM string
	//
	viper    *viper.Viper
	settings []*setting
}

// AddBaseSettings adds the settings common to all commands.
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.LogLevel, "log-level", "", "", "info",
		"log level: trace, debug, info, warn, error", false)
	r.AddSetting(&r.LogFormat, "log-format", "", "", "text",
		"log format: text or json", false)
	r.AddSetting(&r.Address, "address", "a", "", "localhost:8888",
		"API server address", false)
}

// AddImageSettings adds the settings for working on a local save image. If
// required is false, commands fall back to the API server when no save image
// is given.
func (r *Runner) AddImageSettings(required bool) {
	r.AddSetting(&r.Sav, "sav", "s", "", nil, "save image file", required)
	r.AddSetting(&r.ROM, "rom", "r", "", nil,
		"ROM image file, needed for kits", false)
}

// AddSetting adds a setting bound to field ref, which can be a *string, *int,
// or *bool. If env is empty, the environment variable is derived from name.
func (r *Runner) AddSetting(ref interface{}, name, short, env string,
	def interface{}, usage string, required bool) {

	flags := r.Flags()

	switch ref.(type) {
	case *string:
		d, _ := def.(string)
		flags.StringP(name, short, d, usage)
	case *int:
		d, _ := def.(int)
		flags.IntP(name, short, d, usage)
	case *bool:
		d, _ := def.(bool)
		flags.BoolP(name, short, d, usage)
	default:
		panic(fmt.Sprintf("unsupported setting type for %s: %T", name, ref))
	}

	if env == "" {
		env = envPrefix + "_" +
			strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	}

	r.viper.BindPFlag(name, flags.Lookup(name))
	r.viper.BindEnv(name, env)

	r.settings = append(r.settings,
		&setting{ref: ref, name: name, required: required})
}

// ParseSettings resolves all settings into their fields, and configures
// logging.
func (r *Runner) ParseSettings() error {

	for _, s := range r.settings {

		if s.required && !r.viper.IsSet(s.name) {
			return fmt.Errorf("required setting --%s missing", s.name)
		}

		switch ref := s.ref.(type) {
		case *string:
			*ref = r.viper.GetString(s.name)
		case *int:
			*ref = r.viper.GetInt(s.name)
		case *bool:
			*ref = r.viper.GetBool(s.name)
		}
	}

	return configureLogging(r.LogLevel, r.LogFormat)
}

// normalizeName makes --log_level work the same as --log-level.
func normalizeName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

//
func (r *Runner) IsSet(name string) bool {
	return r.viper.IsSet(name)
}

// Positional returns the positional arguments of the command line.
func (r *Runner) Positional() []string {
	return r.Flags().Args()
}

//
func (r *Runner) local() bool {
	return r.Sav != ""
}

//
func (r *Runner) loadWorkspace() (*control.Workspace, error) {
	return control.NewWorkspace(r.Sav, r.ROM)
}

// saveWorkspace persists the workspace image to out, or if that's empty, back
// to the file it was loaded from.
func (r *Runner) saveWorkspace(ws *control.Workspace, out string) error {
	if out != "" {
		ws.SetFile(out)
	}
	return ws.Save()
}

//
func (r *Runner) apiCall(method, path string, json bool,
	body io.Reader) (io.ReadCloser, error) {

	addr := r.Address
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}

	req, err := http.NewRequest(method, addr+path, body)
	if err != nil {
		return nil, err
	}
	if json {
		req.Header.Set("Accept", "application/json")
	}

	log.WithFields(log.Fields{"method": method, "url": req.URL}).Debug("API call")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s (%d)",
			strings.TrimSpace(string(msg)), resp.StatusCode)
	}

	return resp.Body, nil
}

//
func configureLogging(level, form string) error {

	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	switch form {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format: %s", form)
	}

	return nil
}

// parseSlots turns slot numbers as shown to users into zero based slots.
func parseSlots(args []string) ([]int, error) {
	ret := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid slot: %s", a)
		}
		if err := sav.ValidateSlot(n - 1); err != nil {
			return nil, fmt.Errorf("invalid slot: %s", a)
		}
		ret = append(ret, n-1)
	}
	return ret, nil
}

// openContainer opens a possibly compressed song container file.
func openContainer(file string) (*format.SourceReader, error) {

	rd, typ, err := format.OpenFile(file)
	if err != nil {
		return nil, err
	}

	if typ != "" && typ != format.TypeSong {
		rd.Close()
		return nil, fmt.Errorf("not a song container: %s", file)
	}

	return rd, nil
}

//
func GetUserConfirmation(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

//
func readAllClose(rc io.ReadCloser) (string, error) {
	defer rc.Close()
	msg, err := io.ReadAll(rc)
	return string(msg), err
}
