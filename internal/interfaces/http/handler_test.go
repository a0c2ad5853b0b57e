package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo/internal/application/dto"
	"github.com/jhoicas/catalogo/internal/application/usecase"
	"github.com/jhoicas/catalogo/internal/application/validation"
	"github.com/jhoicas/catalogo/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/catalogo/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeUploader struct {
	url      string
	err      error
	calls    []string
	onUpload func()
}

func (f *fakeUploader) Upload(_ context.Context, img dto.ImageFile) (string, error) {
	f.calls = append(f.calls, img.Filename)
	if f.onUpload != nil {
		f.onUpload()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type testEnv struct {
	app        *fiber.App
	uploader   *fakeUploader
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
}

// newTestEnv arma la aplicación real sobre el almacén en memoria y un uploader falso.
func newTestEnv() *testEnv {
	s := memory.NewStore()
	cats := memory.NewCategoryRepository(s)
	prods := memory.NewProductRepository(s)
	up := &fakeUploader{url: "https://media.example.com/products/img.png"}

	env := &testEnv{
		uploader:   up,
		categories: usecase.NewCategoryUseCase(cats, prods, memory.NewTxRunner(s)),
		products:   usecase.NewProductUseCase(prods, cats, up, 0),
	}
	env.app = apphttp.NewApp(apphttp.AppConfig{Name: "catalogo-test"}, apphttp.RouterDeps{
		CatalogUC:  usecase.NewCatalogUseCase(prods, cats),
		CategoryUC: env.categories,
		ProductUC:  env.products,
		Validator:  validation.New(),
	})
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(t *testing.T, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return e.do(t, req)
}

type upload struct {
	filename    string
	contentType string
	content     []byte
}

func (e *testEnv) postMultipart(t *testing.T, path string, values url.Values, file *upload) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range values {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, usecase.ImageField, file.filename))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return e.do(t, req)
}

func (e *testEnv) mustCategory(t *testing.T, name string) string {
	t.Helper()
	out, _, err := e.categories.Create(context.Background(), dto.CategoryInput{Name: name})
	require.NoError(t, err)
	return out.ID
}

func (e *testEnv) mustProduct(t *testing.T, name string, categoryIDs ...string) string {
	t.Helper()
	out, err := e.products.Create(context.Background(), dto.ProductInput{Name: name, CategoryIDs: categoryIDs, Price: "10", Quantity: "1"}, nil)
	require.NoError(t, err)
	return out.ID
}

func pngUpload() *upload {
	return &upload{filename: "portada.png", contentType: "image/png", content: []byte("\x89PNG\r\n")}
}

// ──────────────────────────────────────────────────────────────────────────────
// Portada y salud
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := newTestEnv()
	resp, body := env.get(t, "/health")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "catalogo-test", out["service"])
}

func TestIndex_MuestraConteos(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Puzzle")
	env.mustProduct(t, "Tetris Effect", c)

	resp, body := env.get(t, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Productos</a>: 1")
	assert.Contains(t, body, "Categorías</a>: 1")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate_RecortaYRedirige(t *testing.T) {
	env := newTestEnv()

	resp, _ := env.postForm(t, "/category/create", url.Values{"name": {" Indie "}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get(fiber.HeaderLocation)
	require.True(t, strings.HasPrefix(location, "/category/"))

	resp, body := env.get(t, location)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h1>Indie</h1>")
}

func TestCategoryCreate_LongitudTrasRecortar(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "Dos letras con espacios", input: " ab "},
		{name: "Ampersand cuenta como un carácter", input: "a&"},
		{name: "Solo marcado", input: "<b></b>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()

			resp, body := env.postForm(t, "/category/create", url.Values{"name": {tc.input}})
			assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, body, "El nombre de la categoría debe tener al menos 3 caracteres")

			list, err := env.categories.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestProductCreate_NombreConEntidadesDentroDelLimite(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Puzzle")
	name := strings.Repeat("'", 30)

	resp, _ := env.postForm(t, "/product/create", url.Values{
		"name": {name}, "category": {c}, "price": {"5"}, "quantity": {"1"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	list, err := env.products.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, strings.Repeat("&#39;", 30), list.Items[0].Name)
}

func TestCategoryCreate_NombreCortoVuelveAlFormulario(t *testing.T) {
	env := newTestEnv()

	resp, body := env.postForm(t, "/category/create", url.Values{"name": {"  x "}, "description": {"Juegos"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "El nombre de la categoría debe tener al menos 3 caracteres")
	assert.Contains(t, body, `value="x"`)
	assert.Contains(t, body, ">Juegos</textarea>")

	list, err := env.categories.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryCreate_DuplicadoRedirigeAlExistente(t *testing.T) {
	env := newTestEnv()
	id := env.mustCategory(t, "Shooter")

	resp, _ := env.postForm(t, "/category/create", url.Values{"name": {"SHOOTER"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/category/"+id, resp.Header.Get(fiber.HeaderLocation))

	list, err := env.categories.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryCreate_SaneaMarcado(t *testing.T) {
	env := newTestEnv()

	resp, _ := env.postForm(t, "/category/create", url.Values{"name": {"<b>Rol & Aventura</b>"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	_, body := env.get(t, resp.Header.Get(fiber.HeaderLocation))
	assert.Contains(t, body, "<h1>Rol &amp; Aventura</h1>")
	assert.NotContains(t, body, "&amp;amp;")
	assert.NotContains(t, body, "<b>")
}

func TestCategoryList_OrdenAlfabetico(t *testing.T) {
	env := newTestEnv()
	for _, n := range []string{"Sports", "Action", "Puzzle"} {
		env.mustCategory(t, n)
	}

	resp, body := env.get(t, "/categories")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	action, puzzle, sports := strings.Index(body, "Action"), strings.Index(body, "Puzzle"), strings.Index(body, "Sports")
	assert.True(t, action < puzzle && puzzle < sports, "orden por nombre")
}

func TestCategoryDetail_NoExiste(t *testing.T) {
	env := newTestEnv()
	resp, body := env.get(t, "/category/no-existe")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Categoría no encontrada")
}

func TestCategoryUpdate(t *testing.T) {
	env := newTestEnv()
	id := env.mustCategory(t, "Fantsy")

	resp, body := env.get(t, "/category/"+id+"/update")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Fantsy"`)

	resp, _ = env.postForm(t, "/category/"+id+"/update", url.Values{"name": {"Fantasy"}, "description": {"Mundos mágicos"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/category/"+id, resp.Header.Get(fiber.HeaderLocation))

	got, err := env.categories.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)

	resp, _ = env.postForm(t, "/category/no-existe/update", url.Values{"name": {"Fantasy"}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCategoryDelete_BloqueadaMuestraProductos(t *testing.T) {
	env := newTestEnv()
	id := env.mustCategory(t, "Indie")
	productID := env.mustProduct(t, "Hades", id)

	resp, body := env.get(t, "/category/"+id+"/delete")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hades")

	resp, body = env.postForm(t, "/category/"+id+"/delete", url.Values{})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, "Hades")
	assert.Contains(t, body, "No se puede eliminar")

	still, err := env.categories.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, still)

	product, err := env.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	require.Len(t, product.Categories, 1)
	assert.Equal(t, id, product.Categories[0].ID)
}

func TestCategoryDelete_SinProductos(t *testing.T) {
	env := newTestEnv()
	id := env.mustCategory(t, "Sports")

	resp, _ := env.postForm(t, "/category/"+id+"/delete", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/categories", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = env.get(t, "/category/"+id+"/delete")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, "confirmación de una categoría inexistente redirige al listado")

	resp, _ = env.postForm(t, "/category/"+id+"/delete", url.Values{})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_ConImagenYVariasCategorias(t *testing.T) {
	env := newTestEnv()
	action := env.mustCategory(t, "Action")
	adventure := env.mustCategory(t, "Adventure")

	resp, _ := env.postMultipart(t, "/product/create", url.Values{
		"name":     {"The Legend of Zelda: Breath of the Wild"},
		"category": {action, adventure},
		"price":    {"59.99"},
		"quantity": {"120"},
	}, pngUpload())
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, []string{"portada.png"}, env.uploader.calls)

	resp, body := env.get(t, resp.Header.Get(fiber.HeaderLocation))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, env.uploader.url)
	assert.Contains(t, body, "59.99")
	assert.Contains(t, body, ">Action</a>")
	assert.Contains(t, body, ">Adventure</a>")
}

func TestProductCreate_CategoriaUnicaSinImagen(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Sports")

	resp, _ := env.postMultipart(t, "/product/create", url.Values{
		"name": {"FIFA 22"}, "category": {c}, "price": {"0"}, "quantity": {"0"},
	}, nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, env.uploader.calls)

	list, err := env.products.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].ImageURL)
}

func TestProductCreate_ErroresConservanSeleccion(t *testing.T) {
	env := newTestEnv()
	rpg := env.mustCategory(t, "RPG")
	env.mustCategory(t, "Sports")

	resp, body := env.postMultipart(t, "/product/create", url.Values{
		"name": {"FF7"}, "category": {rpg}, "price": {"-1"}, "quantity": {"1.5"},
	}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "El precio debe ser un número mayor o igual a 0")
	assert.Contains(t, body, "La cantidad debe ser un entero mayor o igual a 0")
	assert.Contains(t, body, fmt.Sprintf(`value="%s" checked`, rpg))
	assert.Contains(t, body, `value="FF7"`)
	assert.Contains(t, body, "Sports")
}

func TestProductCreate_SinCategoria(t *testing.T) {
	env := newTestEnv()
	env.mustCategory(t, "RPG")

	resp, body := env.postMultipart(t, "/product/create", url.Values{
		"name": {"FF7"}, "price": {"69.99"}, "quantity": {"85"},
	}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Debe seleccionar al menos una categoría")
}

func TestProductCreate_FalloDeSubida(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Shooter")
	env.uploader.err = errors.New("host caído")

	resp, body := env.postMultipart(t, "/product/create", url.Values{
		"name": {"Doom"}, "category": {c}, "price": {"19.99"}, "quantity": {"5"},
	}, pngUpload())
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "No se pudo subir la imagen")

	list, err := env.products.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestProductCreate_ArchivoNoImagen(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Shooter")

	resp, body := env.postMultipart(t, "/product/create", url.Values{
		"name": {"Doom"}, "category": {c}, "price": {"19.99"}, "quantity": {"5"},
	}, &upload{filename: "notas.txt", contentType: "text/plain", content: []byte("hola")})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "El archivo debe ser una imagen")
	assert.Empty(t, env.uploader.calls)
}

func TestProductList_Busqueda(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Action")
	for _, n := range []string{"Hades", "Call of Duty", "Half-Life"} {
		env.mustProduct(t, n, c)
	}

	resp, body := env.get(t, "/products?search=ha")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Hades")
	assert.Contains(t, body, "Half-Life")
	assert.NotContains(t, body, "Call of Duty")
	assert.Contains(t, body, `value="ha"`)
}

func TestProductList_BusquedaConApostrofo(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Action")

	resp, _ := env.postForm(t, "/product/create", url.Values{
		"name": {"Assassin's Creed"}, "category": {c}, "price": {"29.99"}, "quantity": {"3"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	env.mustProduct(t, "Hades", c)

	resp, body := env.get(t, "/products?search="+url.QueryEscape("assassin's"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Assassin&#39;s Creed")
	assert.NotContains(t, body, "Hades")
	assert.Contains(t, body, `value="assassin&#39;s"`)
	assert.NotContains(t, body, "&amp;#39;")
}

func TestProductCreate_CategoriaBorradaDuranteLaSubida(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Racing")
	env.uploader.onUpload = func() {
		require.NoError(t, env.categories.Delete(context.Background(), c))
	}

	resp, body := env.postMultipart(t, "/product/create", url.Values{
		"name": {"Gran Turismo"}, "category": {c}, "price": {"49.99"}, "quantity": {"2"},
	}, pngUpload())
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Alguna de las categorías seleccionadas no existe")

	list, err := env.products.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestProductUpdate(t *testing.T) {
	env := newTestEnv()
	rpg := env.mustCategory(t, "RPG")
	fantasy := env.mustCategory(t, "Fantasy")
	id := env.mustProduct(t, "FF7", rpg)

	resp, body := env.get(t, "/product/"+id+"/update")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, fmt.Sprintf(`value="%s" checked`, rpg))

	resp, _ = env.postMultipart(t, "/product/"+id+"/update", url.Values{
		"name": {"Final Fantasy VII Remake"}, "category": {fantasy}, "price": {"39.99"}, "quantity": {"10"},
	}, nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/product/"+id, resp.Header.Get(fiber.HeaderLocation))

	got, err := env.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Final Fantasy VII Remake", got.Name)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, fantasy, got.Categories[0].ID)

	resp, _ = env.postMultipart(t, "/product/no-existe/update", url.Values{
		"name": {"X"}, "category": {fantasy}, "price": {"1"}, "quantity": {"1"},
	}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductDetail_NoExiste(t *testing.T) {
	env := newTestEnv()
	resp, _ := env.get(t, "/product/no-existe")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.get(t, "/product/no-existe/update")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.get(t, "/product/no-existe/delete")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get(fiber.HeaderLocation))
}

func TestProductDelete(t *testing.T) {
	env := newTestEnv()
	c := env.mustCategory(t, "Indie")
	id := env.mustProduct(t, "Celeste", c)

	resp, body := env.get(t, "/product/"+id+"/delete")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Celeste")

	resp, _ = env.postForm(t, "/product/"+id+"/delete", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get(fiber.HeaderLocation))

	got, err := env.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductCreate_FormularioURLEncoded(t *testing.T) {
	env := newTestEnv()
	a := env.mustCategory(t, "Action")
	b := env.mustCategory(t, "Puzzle")

	resp, _ := env.postForm(t, "/product/create", url.Values{
		"name": {"Portal 2"}, "category": {a, b, a}, "price": {"9.99"}, "quantity": {"30"},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	list, err := env.products.List(context.Background(), "portal")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	got, err := env.products.GetByID(context.Background(), list.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, got.Categories, 2, "las categorías repetidas se guardan una vez")
}

func TestCategoryUpdate_NombreDeOtraCategoria(t *testing.T) {
	env := newTestEnv()
	env.mustCategory(t, "Action")
	id := env.mustCategory(t, "Puzzle")

	resp, body := env.postForm(t, "/category/"+id+"/update", url.Values{"name": {"action"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Ya existe otra categoría con ese nombre")

	got, err := env.categories.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Puzzle", got.Name)
}
