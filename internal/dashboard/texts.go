package dashboard

// Texts shown by the dashboard independently of the entity.
const (
	titleEntitySelection  = "Escolha de Entidade"
	entitySelectionPrompt = "Você quer trabalhar com Cliente ou Produto?"
	titleMenu             = "Menu Principal"
	menuOptions           = "1 - Cadastrar 2 - Buscar 3 - Excluir 4 - Alterar 5 - Sair 6 - Listar"
	menuPrompt            = "Escolha uma opção:\n" + menuOptions
	titleInvalidOption    = "Opção Inválida"
	invalidOptionPrompt   = "Opção inválida. Digite uma opção válida:\n" + menuOptions
	titleExit             = "Saindo"
	exitMessage           = "Até logo :)"

	titleRegister = "Cadastrar"
	titleSearch   = "Pesquisar"
	titleDelete   = "Excluir"
	titleModify   = "Alterar"
	titleList     = "Listar"
	titleError    = "Erro"
	titleDeleted  = "Sucesso na Exclusão"
	titleNoValue  = "Erro de Entrada"
	noValue       = "Nenhum valor foi inserido."

	// NotInformed replaces every field that was left blank.
	NotInformed = "Não informado"
)

var entityOptions = []string{"Cliente", "Produto"}

// texts holds everything the dashboard says about one kind of entity.
type texts struct {
	registerPrompt  string
	registered      string
	registeredTitle string
	duplicate       string
	noData          string
	invalidValue    string

	searchPrompt string
	foundTitle   string
	foundPrefix  string

	deletePrompt string
	deleted      string

	modifyPrompt  string
	newDataPrompt string
	newDataTitle  string
	updated       string
	updatedTitle  string

	missingIdentifier      string
	missingIdentifierTitle string
	notFound               string
	notFoundTitle          string
	emptyList              string
}

var clientTexts = texts{
	registerPrompt: "Digite os dados do cliente separados por vírgula:\n" +
		"Nome, CPF, Telefone, Endereço, Número, Cidade, Estado",
	registered:      "Cliente cadastrado com sucesso",
	registeredTitle: "Sucesso no Cadastro",
	duplicate:       "Cliente já se encontra cadastrado",
	noData:          noValue,
	invalidValue:    "Dados inválidos para o cliente.",

	searchPrompt: "Digite o CPF:",
	foundTitle:   "Informações do Cliente",
	foundPrefix:  "Cliente encontrado. \n",

	deletePrompt: "Digite o CPF do cliente a excluir:",
	deleted:      "Cliente excluído com sucesso.",

	modifyPrompt: "Digite o CPF do cliente a alterar:",
	newDataPrompt: "Digite os novos dados separados por vírgula: \n" +
		"Nome, Telefone, Endereço, Número, Cidade, Estado",
	newDataTitle: "Alterar Cliente",
	updated:      "Cliente atualizado com sucesso.",
	updatedTitle: "Cliente Atualizado",

	missingIdentifier:      "CPF não pode estar vazio.",
	missingIdentifierTitle: "CPF - Erro de Entrada",
	notFound:               "Cliente não encontrado.",
	notFoundTitle:          "Erro - Cliente Não Encontrado",
	emptyList:              "Nenhum cliente cadastrado.",
}

var productTexts = texts{
	registerPrompt: "Digite os dados do produto separados por vírgula:\n" +
		"Nome, Código, Descrição, Valor, Marca",
	registered:      "Produto cadastrado com sucesso.",
	registeredTitle: "Sucesso",
	duplicate:       "Produto já cadastrado.",
	noData:          "Nenhum dado inserido.",
	invalidValue:    "Valor inválido para o campo 'Valor'.",

	searchPrompt: "Digite o código do produto:",
	foundTitle:   "Informações do Produto",
	foundPrefix:  "Produto encontrado:\n",

	deletePrompt: "Digite o código do produto a excluir:",
	deleted:      "Produto excluído com sucesso.",

	modifyPrompt:  "Digite o código do produto a alterar:",
	newDataPrompt: "Digite os novos dados separados por vírgula:\nNome, Descrição, Valor, Marca",
	newDataTitle:  "Modificar Produto",
	updated:       "Produto atualizado com sucesso.",
	updatedTitle:  "Produto Atualizado",

	missingIdentifier:      "Código do produto não pode estar vazio.",
	missingIdentifierTitle: "Erro de Entrada",
	notFound:               "Produto não encontrado.",
	notFoundTitle:          "Erro - Produto Não Encontrado",
	emptyList:              "Nenhum produto cadastrado.",
}
