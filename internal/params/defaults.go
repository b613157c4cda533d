package params

// DefaultRegistry registers the launcher's hyperparameter surface: the
// dataset and model selectors, the optimizer and decoder settings, the
// per-loss ablation toggles, and the strong-supervision curriculum knobs.
func DefaultRegistry() *Registry {
	reg := NewRegistry()

	reg.Register(Spec{
		Name:     "dataset",
		Type:     TypeString,
		Default:  "drop",
		Choices:  []string{"drop", "drop_sample", "hotpotqa"},
		Required: true,
		Help:     "dataset the run trains against",
	})
	reg.Register(Spec{
		Name:     "model",
		Type:     TypeString,
		Default:  "drop_parser",
		Choices:  []string{"drop_parser", "drop_parser_bert"},
		Required: true,
		Help:     "model architecture identifier",
	})

	reg.Register(Spec{Name: "batch_size", Type: TypeInt, Default: 4, Required: true, Help: "training batch size"})
	reg.Register(Spec{Name: "learning_rate", Type: TypeFloat, Default: 0.001, Required: true, Help: "optimizer learning rate"})
	reg.Register(Spec{Name: "dropout", Type: TypeFloat, Default: 0.2, Required: true, Help: "dropout probability"})
	reg.Register(Spec{Name: "token_emb_dim", Type: TypeInt, Default: 100, Help: "token embedding dimension"})
	reg.Register(Spec{Name: "epochs", Type: TypeInt, Default: 40, Required: true, Help: "number of training epochs"})

	reg.Register(Spec{Name: "beam_size", Type: TypeInt, Default: 2, Help: "decoder beam size"})
	reg.Register(Spec{Name: "max_decode_steps", Type: TypeInt, Default: 14, Help: "maximum program decoding steps"})

	// Ablation toggles: one boolean per optional loss term.
	reg.Register(Spec{Name: "qatt_loss", Type: TypeBool, Default: true, Help: "enable the question-attention auxiliary loss"})
	reg.Register(Spec{Name: "mml_loss", Type: TypeBool, Default: true, Help: "enable maximum marginal likelihood over gold programs"})
	reg.Register(Spec{Name: "excl_loss", Type: TypeBool, Default: true, Help: "enable the execution-supervision exclusivity loss"})
	reg.Register(Spec{Name: "hard_em", Type: TypeBool, Default: false, Help: "use hard-EM instead of marginalization after warmup"})

	// Strong-supervision curriculum.
	reg.Register(Spec{Name: "sup_first", Type: TypeBool, Default: true, Help: "front-load strongly-supervised instances"})
	reg.Register(Spec{Name: "sup_epochs", Type: TypeInt, Default: 5, Help: "epochs to train on strongly-supervised instances only"})

	reg.Register(Spec{Name: "seed", Type: TypeInt, Default: 100, Required: true, Help: "random seed for the run"})

	return reg
}
