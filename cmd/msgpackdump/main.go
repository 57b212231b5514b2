// Copyright (C) 2024 msgpackio authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command msgpackdump decodes a MessagePack stream into JSON or YAML.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
	"sigs.k8s.io/yaml"

	"github.com/mpkio/msgpackio/msgpack"
	"github.com/mpkio/msgpackio/msgpack/value"
)

func main() {
	format := flag.String("format", "json", "output format: json or yaml")
	digest := flag.Bool("digest", false, "print a blake2b digest of each decoded value's rendered output")
	flag.Parse()

	o := bufio.NewWriter(os.Stdout)
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}

	for _, arg := range args {
		if err := dumpOne(o, arg, *format, *digest); err != nil {
			fmt.Fprintf(os.Stderr, "input %s: %s\n", arg, err)
			os.Exit(1)
		}
	}

	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dumpOne(o *bufio.Writer, arg, format string, digest bool) error {
	var in *os.File
	if arg == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return fmt.Errorf("can't open %q: %w", arg, err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	cfg := msgpack.NewConfig()
	for len(data) > 0 {
		v, n, err := value.ParseRef(data, cfg)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		data = data[n:]

		out, err := render(v.Clone(), format)
		if err != nil {
			return err
		}
		if _, err := o.Write(out); err != nil {
			return err
		}
		if err := o.WriteByte('\n'); err != nil {
			return err
		}

		if digest {
			sum := blake2b.Sum256(out)
			fmt.Fprintf(o, "# blake2b-256: %s\n", hex.EncodeToString(sum[:]))
		}
	}
	return nil
}

func render(v value.Value, format string) ([]byte, error) {
	iface := v.ToInterface()
	switch format {
	case "json":
		return json.Marshal(iface)
	case "yaml":
		js, err := json.Marshal(iface)
		if err != nil {
			return nil, err
		}
		return yaml.JSONToYAML(js)
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
