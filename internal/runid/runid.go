package runid

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/semlab/trainctl/internal/params"
)

// ErrUnsafeValue reports a parameter value that cannot appear in a path
// segment, such as one containing a path separator.
var ErrUnsafeValue = errors.New("unsafe value for path segment")

// Segment names one path element: the rendered form is "Label_value" where
// value is the parameter's canonical string rendering.
type Segment struct {
	Label string
	Param string
}

// Group is an ordered run of segments belonging to one logical
// hyperparameter group (optimizer, decoder, losses, ...). Groups exist for
// scheme readability; each segment still renders as its own path element.
type Group []Segment

// Scheme describes how a frozen parameter set maps onto a run path. The
// dataset and model parameters render as bare values heading the path;
// the seed segment always ends it.
type Scheme struct {
	Dataset string
	Model   string
	Groups  []Group
	Seed    Segment
}

// DefaultScheme is the naming convention the launcher ships with:
// <dataset>/<model>/BS_x/LR_x/Drop_x/Beam_x/Dec_x/Ep_x/<loss toggles>/<curriculum>/S_x.
func DefaultScheme() Scheme {
	return Scheme{
		Dataset: "dataset",
		Model:   "model",
		Groups: []Group{
			{
				{Label: "BS", Param: "batch_size"},
				{Label: "LR", Param: "learning_rate"},
				{Label: "Drop", Param: "dropout"},
			},
			{
				{Label: "Beam", Param: "beam_size"},
				{Label: "Dec", Param: "max_decode_steps"},
				{Label: "Ep", Param: "epochs"},
			},
			{
				{Label: "Qatt", Param: "qatt_loss"},
				{Label: "Mml", Param: "mml_loss"},
				{Label: "Excl", Param: "excl_loss"},
				{Label: "HardEM", Param: "hard_em"},
			},
			{
				{Label: "SupFirst", Param: "sup_first"},
				{Label: "SupEp", Param: "sup_epochs"},
			},
		},
		Seed: Segment{Label: "S", Param: "seed"},
	}
}

// RunPath is the ordered sequence of derived path elements.
type RunPath struct {
	elems []string
}

// String renders the path with forward slashes, independent of platform.
func (p RunPath) String() string {
	return strings.Join(p.elems, "/")
}

// Elements returns a copy of the path elements in order.
func (p RunPath) Elements() []string {
	out := make([]string, len(p.elems))
	copy(out, p.elems)
	return out
}

// Join resolves the run path under root using the platform separator.
func (p RunPath) Join(root string) string {
	parts := append([]string{root}, p.elems...)
	return filepath.Join(parts...)
}

// Derive maps a frozen parameter set onto a RunPath according to the
// scheme. It is a pure function: equal inputs always produce equal paths,
// and two sets differing in any scheme field produce distinct paths.
func Derive(frozen *params.Frozen, scheme Scheme) (RunPath, error) {
	var elems []string

	appendElem := func(elem, param string) error {
		if err := checkSafe(elem, param); err != nil {
			return err
		}
		elems = append(elems, elem)
		return nil
	}

	for _, head := range []string{scheme.Dataset, scheme.Model} {
		if head == "" {
			continue
		}
		value, err := render(frozen, head)
		if err != nil {
			return RunPath{}, err
		}
		if err := appendElem(value, head); err != nil {
			return RunPath{}, err
		}
	}

	for _, group := range scheme.Groups {
		for _, seg := range group {
			value, err := render(frozen, seg.Param)
			if err != nil {
				return RunPath{}, err
			}
			if err := appendElem(seg.Label+"_"+value, seg.Param); err != nil {
				return RunPath{}, err
			}
		}
	}

	if scheme.Seed.Param != "" {
		value, err := render(frozen, scheme.Seed.Param)
		if err != nil {
			return RunPath{}, err
		}
		if err := appendElem(scheme.Seed.Label+"_"+value, scheme.Seed.Param); err != nil {
			return RunPath{}, err
		}
	}

	if len(elems) == 0 {
		return RunPath{}, fmt.Errorf("naming scheme produced an empty path")
	}
	return RunPath{elems: elems}, nil
}

// render produces the canonical string form of one parameter value.
func render(frozen *params.Frozen, name string) (string, error) {
	value, ok := frozen.Value(name)
	if !ok {
		return "", fmt.Errorf("naming scheme references parameter %q which has no value", name)
	}
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("naming scheme parameter %q has unsupported value type %T", name, value)
	}
}

// checkSafe rejects rendered elements that would escape or corrupt the
// directory layout.
func checkSafe(elem, param string) error {
	if elem == "" || elem == "." || elem == ".." {
		return fmt.Errorf("%w: parameter %q renders to %q", ErrUnsafeValue, param, elem)
	}
	if strings.ContainsAny(elem, "/\\\x00") {
		return fmt.Errorf("%w: parameter %q renders to %q", ErrUnsafeValue, param, elem)
	}
	return nil
}
